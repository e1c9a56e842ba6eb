package platform

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/uipilot/uipilot/internal/model"
)

// DefaultBridgeURL is where the accessibility bridge helper listens.
const DefaultBridgeURL = "http://localhost:3001"

// Bridge talks to the local accessibility bridge service over HTTP. The
// bridge owns the OS-level work (tree walking, event injection, on-screen
// text search); this client only moves JSON. Bridge implements ScreenSource,
// AppTracker, Inputter, and TextLocator.
type Bridge struct {
	baseURL string
	httpc   *http.Client
	log     *zap.Logger
}

// NewBridge creates a bridge client. An empty baseURL uses DefaultBridgeURL.
func NewBridge(baseURL string, timeout time.Duration, log *zap.Logger) *Bridge {
	if baseURL == "" {
		baseURL = DefaultBridgeURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Bridge{
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: timeout},
		log:     log,
	}
}

// wireElement is the bridge's JSON shape for one accessibility element.
type wireElement struct {
	ID      string `json:"id"`
	Label   string `json:"label"`
	Role    string `json:"role"`
	Bounds  [4]int `json:"bounds"`
	Value   string `json:"value,omitempty"`
	Enabled *bool  `json:"enabled,omitempty"` // absent = enabled
	Focused bool   `json:"focused,omitempty"`
}

type wireScreen struct {
	AppName     string        `json:"app_name"`
	WindowTitle string        `json:"window_title"`
	Elements    []wireElement `json:"elements"`
	Screenshot  string        `json:"screenshot_b64,omitempty"`
}

// Snapshot fetches the current accessibility tree and screenshot.
func (b *Bridge) Snapshot(ctx context.Context) (*RawScreen, error) {
	var ws wireScreen
	if err := b.getJSON(ctx, "/api/screen-context?screenshot=true", &ws); err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}

	raw := &RawScreen{
		AppName:     ws.AppName,
		WindowTitle: ws.WindowTitle,
		Elements:    make([]model.Element, 0, len(ws.Elements)),
	}
	for _, we := range ws.Elements {
		raw.Elements = append(raw.Elements, model.Element{
			ID:      we.ID,
			Label:   we.Label,
			Role:    we.Role,
			Bounds:  we.Bounds,
			Value:   we.Value,
			Enabled: we.Enabled == nil || *we.Enabled,
			Focused: we.Focused,
		})
	}
	if ws.Screenshot != "" {
		img, err := base64.StdEncoding.DecodeString(ws.Screenshot)
		if err != nil {
			b.log.Warn("bridge returned undecodable screenshot", zap.Error(err))
		} else {
			raw.Screenshot = img
		}
	}
	return raw, nil
}

// ActiveApp returns the frontmost application name without a tree read.
func (b *Bridge) ActiveApp(ctx context.Context) (string, error) {
	var resp struct {
		Name string `json:"name"`
	}
	if err := b.getJSON(ctx, "/api/active-app", &resp); err != nil {
		return "", fmt.Errorf("active app: %w", err)
	}
	if resp.Name == "" {
		return "", fmt.Errorf("active app: bridge returned no app name")
	}
	return resp.Name, nil
}

func (b *Bridge) Click(ctx context.Context, x, y int) error {
	return b.click(ctx, x, y, "left", 1)
}

func (b *Bridge) DoubleClick(ctx context.Context, x, y int) error {
	return b.click(ctx, x, y, "left", 2)
}

func (b *Bridge) RightClick(ctx context.Context, x, y int) error {
	return b.click(ctx, x, y, "right", 1)
}

// ClickElement clicks the center point of an element.
func (b *Bridge) ClickElement(ctx context.Context, el model.Element) error {
	x, y := el.Center()
	return b.Click(ctx, x, y)
}

func (b *Bridge) click(ctx context.Context, x, y int, button string, count int) error {
	req := map[string]any{"x": x, "y": y, "button": button, "count": count}
	if err := b.postJSON(ctx, "/api/click", req, nil); err != nil {
		return fmt.Errorf("click (%d,%d): %w", x, y, err)
	}
	return nil
}

func (b *Bridge) TypeText(ctx context.Context, text string) error {
	if err := b.postJSON(ctx, "/api/type", map[string]any{"text": text}, nil); err != nil {
		return fmt.Errorf("type text: %w", err)
	}
	return nil
}

// PressShortcut validates the combo locally, then sends the canonical token
// list to the bridge.
func (b *Bridge) PressShortcut(ctx context.Context, combo string) error {
	tokens, err := ParseShortcut(combo)
	if err != nil {
		return err
	}
	if err := b.postJSON(ctx, "/api/shortcut", map[string]any{"keys": tokens}, nil); err != nil {
		return fmt.Errorf("shortcut %q: %w", combo, err)
	}
	return nil
}

func (b *Bridge) Scroll(ctx context.Context, direction string, amount int) error {
	if !ScrollDirections[direction] {
		return fmt.Errorf("scroll: unknown direction %q", direction)
	}
	if amount <= 0 {
		amount = 3
	}
	req := map[string]any{"direction": direction, "amount": amount}
	if err := b.postJSON(ctx, "/api/scroll", req, nil); err != nil {
		return fmt.Errorf("scroll %s: %w", direction, err)
	}
	return nil
}

// Locate asks the bridge's text search for the click point of on-screen text.
func (b *Bridge) Locate(ctx context.Context, query string) (int, int, error) {
	var resp struct {
		Success bool   `json:"success"`
		X       int    `json:"x"`
		Y       int    `json:"y"`
		Error   string `json:"error,omitempty"`
	}
	if err := b.postJSON(ctx, "/api/locate-text", map[string]any{"query": query}, &resp); err != nil {
		return 0, 0, fmt.Errorf("locate %q: %w", query, err)
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = "text not found"
		}
		return 0, 0, fmt.Errorf("locate %q: %s", query, msg)
	}
	return resp.X, resp.Y, nil
}

func (b *Bridge) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return err
	}
	return b.do(req, out)
}

func (b *Bridge) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return b.do(req, out)
}

func (b *Bridge) do(req *http.Request, out any) error {
	resp, err := b.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("bridge returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode bridge response: %w", err)
	}
	return nil
}

package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/interfaces"
)

// actionTimeout bounds individual element operations (fill, click,
// attribute reads). Navigation gets its own caller-supplied timeout.
const actionTimeout = 5 * time.Second

// Page wraps one chromedp browser context as a BrowserPage
type Page struct {
	ctx    context.Context
	logger arbor.ILogger
}

func newPage(ctx context.Context, logger arbor.ILogger) *Page {
	return &Page{ctx: ctx, logger: logger}
}

// run executes chromedp actions against the page context, bounded by timeout
// when one is given.
func (p *Page) run(timeout time.Duration, actions ...chromedp.Action) error {
	runCtx := p.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
		defer cancel()
	}
	return chromedp.Run(runCtx, actions...)
}

// Navigate loads the URL and waits for the document body to be ready. This
// is a weaker signal than network idle; the flow driver's settle and
// bootstrap waits cover the gap between DOM readiness and the app's API
// traffic going quiet.
func (p *Page) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.run(timeout,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("navigation to %s failed: %w", url, err)
	}
	return nil
}

// FirstVisible checks element presence and visibility in one evaluate call.
// A selector querySelector cannot parse counts as no match.
func (p *Page) FirstVisible(ctx context.Context, selector string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	sel, err := json.Marshal(selector)
	if err != nil {
		return false, nil
	}

	script := fmt.Sprintf(`(function() {
		try {
			var el = document.querySelector(%s);
			if (!el) return false;
			var style = window.getComputedStyle(el);
			return style.display !== 'none' && style.visibility !== 'hidden' && el.offsetParent !== null;
		} catch (e) {
			return false;
		}
	})()`, string(sel))

	var visible bool
	if err := p.run(actionTimeout, chromedp.Evaluate(script, &visible)); err != nil {
		return false, fmt.Errorf("visibility check failed for %s: %w", selector, err)
	}
	return visible, nil
}

// Fill clears the first matching element and types the value into it
func (p *Page) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.run(actionTimeout,
		chromedp.Clear(selector, chromedp.ByQuery),
		chromedp.SendKeys(selector, value, chromedp.ByQuery),
	); err != nil {
		return fmt.Errorf("fill failed for %s: %w", selector, err)
	}
	return nil
}

// Click clicks the first matching element
func (p *Page) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.run(actionTimeout, chromedp.Click(selector, chromedp.ByQuery)); err != nil {
		return fmt.Errorf("click failed for %s: %w", selector, err)
	}
	return nil
}

// OnRequest subscribes fn to outbound requests via CDP network events. The
// callback runs on chromedp's event goroutine and must not block.
func (p *Page) OnRequest(fn func(interfaces.Request)) {
	chromedp.ListenTarget(p.ctx, func(ev interface{}) {
		e, ok := ev.(*network.EventRequestWillBeSent)
		if !ok {
			return
		}

		headers := make(map[string]string, len(e.Request.Headers))
		for k, v := range e.Request.Headers {
			if s, ok := v.(string); ok {
				headers[strings.ToLower(k)] = s
			}
		}

		fn(interfaces.Request{
			URL:     e.Request.URL,
			Headers: headers,
		})
	})
}

// URL returns the page's current location
func (p *Page) URL(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var loc string
	if err := p.run(actionTimeout, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("location read failed: %w", err)
	}
	return loc, nil
}

// Title returns the page's document title
func (p *Page) Title(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var title string
	if err := p.run(actionTimeout, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("title read failed: %w", err)
	}
	return title, nil
}

// Screenshot captures the viewport as PNG
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf []byte
	if err := p.run(10*time.Second, chromedp.CaptureScreenshot(&buf)); err != nil {
		return nil, fmt.Errorf("screenshot failed: %w", err)
	}
	return buf, nil
}

// Inputs dumps all input elements with their identifying attributes and
// visibility, for operator debugging when a required field cannot be found.
func (p *Page) Inputs(ctx context.Context) ([]interfaces.InputElement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	script := `(function() {
		var out = [];
		var inputs = document.querySelectorAll('input');
		for (var i = 0; i < inputs.length; i++) {
			var el = inputs[i];
			var style = window.getComputedStyle(el);
			out.push({
				type: el.getAttribute('type') || '',
				name: el.getAttribute('name') || '',
				id: el.getAttribute('id') || '',
				placeholder: el.getAttribute('placeholder') || '',
				visible: style.display !== 'none' && style.visibility !== 'hidden' && el.offsetParent !== null
			});
		}
		return out;
	})()`

	var inputs []interfaces.InputElement
	if err := p.run(actionTimeout, chromedp.Evaluate(script, &inputs)); err != nil {
		return nil, fmt.Errorf("input dump failed: %w", err)
	}
	return inputs, nil
}

// FrameURLs returns the URLs of all frames attached to the page
func (p *Page) FrameURLs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var urls []string
	err := p.run(actionTimeout, chromedp.ActionFunc(func(ctx context.Context) error {
		tree, err := page.GetFrameTree().Do(ctx)
		if err != nil {
			return err
		}
		urls = collectFrameURLs(tree, urls)
		return nil
	}))
	if err != nil {
		return nil, fmt.Errorf("frame tree read failed: %w", err)
	}
	return urls, nil
}

func collectFrameURLs(tree *page.FrameTree, urls []string) []string {
	if tree == nil {
		return urls
	}
	if tree.Frame != nil {
		urls = append(urls, tree.Frame.URL)
	}
	for _, child := range tree.ChildFrames {
		urls = collectFrameURLs(child, urls)
	}
	return urls
}

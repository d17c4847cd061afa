package capture

import (
	"context"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/capto/internal/interfaces"
)

func testLogger() arbor.ILogger {
	return arbor.NewLogger()
}

// fakePage is a scriptable BrowserPage for driver and locator tests.
type fakePage struct {
	visible    map[string]bool
	visibleErr map[string]error
	fillErr    map[string]error
	navErr     map[string]error

	// emitOnNavigate sends a request to the subscriber when the given URL
	// is navigated to, simulating app traffic during page load.
	emitOnNavigate map[string]interfaces.Request

	checked     []string
	fills       map[string]string
	clicks      []string
	navigations []string
	inputsCalls int
	framesCalls int

	requestFn func(interfaces.Request)
}

func newFakePage() *fakePage {
	return &fakePage{
		visible:        map[string]bool{},
		visibleErr:     map[string]error{},
		fillErr:        map[string]error{},
		navErr:         map[string]error{},
		emitOnNavigate: map[string]interfaces.Request{},
		fills:          map[string]string{},
	}
}

func (p *fakePage) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	p.navigations = append(p.navigations, url)
	if err := p.navErr[url]; err != nil {
		return err
	}
	if req, ok := p.emitOnNavigate[url]; ok && p.requestFn != nil {
		p.requestFn(req)
	}
	return nil
}

func (p *fakePage) FirstVisible(ctx context.Context, selector string) (bool, error) {
	p.checked = append(p.checked, selector)
	if err := p.visibleErr[selector]; err != nil {
		return false, err
	}
	return p.visible[selector], nil
}

func (p *fakePage) Fill(ctx context.Context, selector, value string) error {
	if err := p.fillErr[selector]; err != nil {
		return err
	}
	p.fills[selector] = value
	return nil
}

func (p *fakePage) Click(ctx context.Context, selector string) error {
	p.clicks = append(p.clicks, selector)
	return nil
}

func (p *fakePage) OnRequest(fn func(interfaces.Request)) {
	p.requestFn = fn
}

func (p *fakePage) URL(ctx context.Context) (string, error) {
	if len(p.navigations) == 0 {
		return "about:blank", nil
	}
	return p.navigations[len(p.navigations)-1], nil
}

func (p *fakePage) Title(ctx context.Context) (string, error) {
	return "fake page", nil
}

func (p *fakePage) Screenshot(ctx context.Context) ([]byte, error) {
	return []byte("png"), nil
}

func (p *fakePage) Inputs(ctx context.Context) ([]interfaces.InputElement, error) {
	p.inputsCalls++
	return []interfaces.InputElement{
		{Type: "hidden", Name: "csrf", Visible: false},
	}, nil
}

func (p *fakePage) FrameURLs(ctx context.Context) ([]string, error) {
	p.framesCalls++
	return []string{"https://login.example.com/"}, nil
}

// fakeEngine hands out one fakePage and counts releases.
type fakeEngine struct {
	page     *fakePage
	newErr   error
	releases int
}

func (e *fakeEngine) NewPage(ctx context.Context) (interfaces.BrowserPage, func(), error) {
	if e.newErr != nil {
		return nil, nil, e.newErr
	}
	return e.page, func() { e.releases++ }, nil
}

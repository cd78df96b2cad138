package testing

import (
	"sync"
	"time"

	"github.com/cpcf/ngsyntax/binding"
)

// MockParser is a binding.Parser that records its calls. By default it
// delegates to the built-in parser.
type MockParser struct {
	parseFunc func(directive, value, location string) *binding.ParseResult
	calls     []MockParseCall
	mu        sync.RWMutex
}

type MockParseCall struct {
	Directive string    `json:"directive"`
	Value     string    `json:"value"`
	Location  string    `json:"location"`
	Errors    int       `json:"errors"`
	Timestamp time.Time `json:"timestamp"`
}

var _ binding.Parser = (*MockParser)(nil)

func NewMockParser() *MockParser {
	return &MockParser{
		calls:     make([]MockParseCall, 0),
		parseFunc: binding.NewParser().ParseTemplateBindings,
	}
}

func (mp *MockParser) SetParseFunc(fn func(directive, value, location string) *binding.ParseResult) {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.parseFunc = fn
}

// SetResult makes every following call return result.
func (mp *MockParser) SetResult(result *binding.ParseResult) {
	mp.SetParseFunc(func(string, string, string) *binding.ParseResult {
		return result
	})
}

func (mp *MockParser) ParseTemplateBindings(directive, value, location string) *binding.ParseResult {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	result := mp.parseFunc(directive, value, location)
	mp.calls = append(mp.calls, MockParseCall{
		Directive: directive,
		Value:     value,
		Location:  location,
		Errors:    len(result.Errors),
		Timestamp: time.Now(),
	})
	return result
}

func (mp *MockParser) GetCalls() []MockParseCall {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	calls := make([]MockParseCall, len(mp.calls))
	copy(calls, mp.calls)
	return calls
}

func (mp *MockParser) GetCallCount() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return len(mp.calls)
}

func (mp *MockParser) Clear() {
	mp.mu.Lock()
	defer mp.mu.Unlock()
	mp.calls = make([]MockParseCall, 0)
}

func (mp *MockParser) WasCalled(directive, value string) bool {
	for _, call := range mp.GetCalls() {
		if call.Directive == directive && call.Value == value {
			return true
		}
	}
	return false
}

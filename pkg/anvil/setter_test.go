package anvil

import (
	stderrors "errors"
	"testing"

	"github.com/go-anvil/anvil/pkg/errors"
)

type testNode struct {
	title    string
	tags     []string
	onChange func(string)
	calls    int
}

func (n *testNode) NodeType() NodeType { return "test" }

func (n *testNode) SetTitle(s string) {
	n.title = s
	n.calls++
}

func (n *testNode) SetTags(tags []string) { n.tags = tags }

func (n *testNode) SetOnChange(f func(string)) { n.onChange = f }

func (n *testNode) SetPair(a, b string) {}

type captureHandler struct {
	errs []*errors.AnvilError
}

func (h *captureHandler) HandleError(err *errors.AnvilError) { h.errs = append(h.errs, err) }

func (h *captureHandler) HandlePanic(*errors.PanicError) {}

func captureErrors(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	prev := errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(prev) })
	return h
}

func TestMethodSetter(t *testing.T) {
	h := captureErrors(t)
	n := &testNode{}
	s := MethodSetter{}

	if !s.Set(n, "title", "hello", nil) || n.title != "hello" {
		t.Errorf("title = %q, want hello", n.title)
	}
	if !s.Set(n, "tags", nil, nil) || n.tags != nil {
		t.Error("nil should be passed to a slice parameter")
	}
	if !s.Set(n, "onChange", func(string) {}, nil) || n.onChange == nil {
		t.Error("function values should be assignable")
	}
	if s.Set(n, "missing", 1, nil) {
		t.Error("unknown attribute should be declined")
	}
	if s.Set(n, "pair", "a", nil) {
		t.Error("methods with more than one parameter should be declined")
	}
	if len(h.errs) != 0 {
		t.Fatalf("unexpected reports: %v", h.errs)
	}

	if s.Set(n, "title", 42, nil) {
		t.Error("mismatched type should be declined")
	}
	if s.Set(n, "title", nil, nil) {
		t.Error("nil for a string parameter should be declined")
	}
	if len(h.errs) != 2 {
		t.Fatalf("reported %d errors, want 2", len(h.errs))
	}
	var typeErr *errors.AttributeTypeError
	if !stderrors.As(h.errs[0], &typeErr) || typeErr.Want != "string" || typeErr.Name != "title" {
		t.Errorf("report = %v, want AttributeTypeError for title", h.errs[0])
	}
	if h.errs[0].Kind != errors.KindAttribute {
		t.Errorf("Kind = %v, want attribute", h.errs[0].Kind)
	}
}

func TestTypedSetter(t *testing.T) {
	h := captureErrors(t)
	var got []string
	s := Setter("title", func(n *testNode, v string) { got = append(got, v) })

	if !s.Set(&testNode{}, "title", "a", nil) {
		t.Error("matching attribute should be claimed")
	}
	if !s.Set(&testNode{}, "title", nil, "a") {
		t.Error("nil should be claimed as the zero value")
	}
	if s.Set(&testNode{}, "subtitle", "a", nil) {
		t.Error("other names should be declined")
	}
	if s.Set(otherNode{}, "title", "a", nil) {
		t.Error("other node types should be declined")
	}
	if len(h.errs) != 0 {
		t.Fatalf("unexpected reports: %v", h.errs)
	}
	if s.Set(&testNode{}, "title", 3, nil) {
		t.Error("mismatched value should be declined")
	}
	if len(h.errs) != 1 {
		t.Errorf("reported %d errors, want 1", len(h.errs))
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "" {
		t.Errorf("applied %q, want [a \"\"]", got)
	}
}

type otherNode struct{}

func (otherNode) NodeType() NodeType { return "other" }

func TestSetterName(t *testing.T) {
	tests := map[string]string{
		"text":     "SetText",
		"onClick":  "SetOnClick",
		"X":        "SetX",
		"émphasis": "SetÉmphasis",
		"":         "Set",
	}
	for in, want := range tests {
		if got := setterName(in); got != want {
			t.Errorf("setterName(%q) = %q, want %q", in, got, want)
		}
	}
}

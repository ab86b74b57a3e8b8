package component

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/morphonent/morphonent/pkg/async"
)

func TestH(t *testing.T) {
	el := H("section", Props{Class("card")}, Text("first"), Text("second"))
	if el.Name != "section" {
		t.Errorf("Name = %q", el.Name)
	}
	if v, ok := el.Props.Get("class"); !ok || v != "card" {
		t.Errorf("Props.Get(class) = %v, %v", v, ok)
	}
	if diff := cmp.Diff([]Component{Text("first"), Text("second")}, el.Children); diff != "" {
		t.Errorf("Children mismatch (-want +got):\n%s", diff)
	}
}

func TestTransitionShape(t *testing.T) {
	l := async.NewLoop()
	from := H("span", Props{Class("old")}, Text("first"))
	to := async.Resolve[Component](l, H("span", nil, Text("second")))

	tr := Transition(from, to)
	if tr.From != from {
		t.Error("From is not the source element")
	}
	if tr.To.Value == nil {
		t.Error("To has no thenable")
	}
}

func TestListeningToShape(t *testing.T) {
	handler := func(payload any) Component { return Text("pinged") }
	sub := ListeningTo(map[string]BusHandler{"ping": handler}, Text("body"))
	if sub.Body != Text("body") {
		t.Errorf("Body = %v", sub.Body)
	}
	if _, ok := sub.Events["ping"]; !ok || len(sub.Events) != 1 {
		t.Errorf("Events = %v", sub.Events)
	}
	if sub.ID != "" {
		t.Errorf("ID = %q before resolution, want empty", sub.ID)
	}
}

func TestPropsWithKeepsPosition(t *testing.T) {
	p := Props{Attr("a", 1), Attr("b", 2)}
	got := p.With("a", 3).With("c", 4)
	if diff := cmp.Diff([]string{"a", "b", "c"}, got.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if v, _ := got.Get("a"); v != 3 {
		t.Errorf("a = %v, want 3", v)
	}
	if v, _ := p.Get("a"); v != 1 {
		t.Errorf("With mutated the receiver: a = %v", v)
	}
}

func TestNumberString(t *testing.T) {
	tests := []struct {
		in   Number
		want string
	}{
		{1, "1"},
		{1.5, "1.5"},
		{-0.25, "-0.25"},
		{1e6, "1000000"},
		{Number(math.NaN()), "NaN"},
		{Number(math.Inf(1)), "Infinity"},
		{Number(math.Inf(-1)), "-Infinity"},
		{Number(math.Copysign(0, -1)), "0"},
		{1e21, "1e+21"},
		{1.5e21, "1.5e+21"},
		{999999999999999900000, "999999999999999900000"},
		{1e-7, "1e-7"},
		{-2.5e-8, "-2.5e-8"},
		{0.000001, "0.000001"},
		{1e300, "1e+300"},
	}
	for _, tt := range tests {
		if got := tt.in.String(); got != tt.want {
			t.Errorf("Number(%v).String() = %q, want %q", float64(tt.in), got, tt.want)
		}
	}
}

func TestEventProps(t *testing.T) {
	if !IsEventProp("onclick") || IsEventProp("on") || IsEventProp("class") {
		t.Error("IsEventProp mismatch")
	}
	if got := EventName("onClick"); got != "click" {
		t.Errorf("EventName(onClick) = %q", got)
	}
	p := OnClick(nil)
	if p.Key != "onclick" {
		t.Errorf("OnClick key = %q", p.Key)
	}
}

func TestPropString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"x", "x"},
		{42, "42"},
		{2.5, "2.5"},
		{true, "true"},
		{nil, ""},
		{Text("t"), "t"},
		{float32(0.1), "0.1"},
		{float32(1e-7), "1e-7"},
	}
	for _, tt := range tests {
		if got := PropString(tt.in); got != tt.want {
			t.Errorf("PropString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

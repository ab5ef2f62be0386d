package memtree

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"

	"github.com/go-anvil/anvil/pkg/anvil"
	"github.com/go-anvil/anvil/pkg/errors"
)

// Register adds constructors for the built-in node types to reg.
func Register(reg *anvil.TypeRegistry) {
	for _, t := range []anvil.NodeType{TypeView, TypeText, TypeButton, TypeImage} {
		reg.RegisterType(t, func(anvil.Node) anvil.Node { return NewView(t) })
	}
	for _, t := range []anvil.NodeType{TypeGroup, TypeList} {
		reg.RegisterType(t, func(anvil.Node) anvil.Node { return NewGroup(t) })
	}
}

// Setters returns the memtree specific attribute setters, highest priority
// first. Attributes backed by a single-argument SetX method (text, visible,
// onClick) are left to anvil.MethodSetter.
func Setters() []anvil.AttributeSetter {
	return []anvil.AttributeSetter{
		backgroundSetter{},
		anvil.Setter("props", func(e Element, props map[string]any) {
			v := e.Base()
			for name := range v.props {
				if _, keep := props[name]; !keep {
					v.SetProp(name, nil)
				}
			}
			for name, p := range props {
				v.SetProp(name, p)
			}
		}),
	}
}

// backgroundSetter accepts a color.Color, an SVG color name or a #rgb /
// #rrggbb hex string. Invalid values are reported and still claimed, so the
// previous background stays and the error is not repeated every pass.
type backgroundSetter struct{}

func (backgroundSetter) Set(n anvil.Node, name string, value, prev any) bool {
	if name != "background" {
		return false
	}
	e, ok := n.(Element)
	if !ok {
		return false
	}
	c, err := ParseColor(value)
	if err != nil {
		errors.Report(&errors.AnvilError{Op: "memtree.background", Kind: errors.KindAttribute, Err: err})
		return true
	}
	e.Base().SetBackground(c)
	return true
}

// ParseColor converts an attribute value to a color. Nil yields nil.
func ParseColor(value any) (color.Color, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case color.Color:
		return v, nil
	case string:
		s := strings.ToLower(strings.TrimSpace(v))
		if c, ok := colornames.Map[s]; ok {
			return c, nil
		}
		if strings.HasPrefix(s, "#") {
			return parseHex(s[1:])
		}
		return nil, fmt.Errorf("unknown color %q", v)
	default:
		return nil, &errors.AttributeTypeError{Name: "background", Node: "memtree.Element", Want: "color", Got: value}
	}
}

func parseHex(s string) (color.Color, error) {
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return nil, fmt.Errorf("invalid hex color %q", "#"+s)
	}
	rgb, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid hex color %q: %w", "#"+s, err)
	}
	return color.RGBA{R: uint8(rgb >> 16), G: uint8(rgb >> 8), B: uint8(rgb), A: 0xff}, nil
}

// FormatColor renders c as #rrggbb, or the SVG name when one matches.
func FormatColor(c color.Color) string {
	if c == nil {
		return ""
	}
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	for _, name := range colornames.Names {
		if colornames.Map[name] == rgba {
			return name
		}
	}
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}

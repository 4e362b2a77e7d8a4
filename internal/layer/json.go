package layer

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// wireLayer is the JSON shape produced by the generation step: geometry at
// the top level and everything else in a loose properties object.
type wireLayer struct {
	ID         string                     `json:"id"`
	Name       string                     `json:"name"`
	Type       Type                       `json:"type"`
	Role       Role                       `json:"role,omitempty"`
	X          float64                    `json:"x"`
	Y          float64                    `json:"y"`
	Width      float64                    `json:"width"`
	Height     float64                    `json:"height"`
	Rotation   float64                    `json:"rotation"`
	Opacity    *float64                   `json:"opacity,omitempty"`
	Visible    *bool                      `json:"visible,omitempty"`
	Properties map[string]json.RawMessage `json:"properties,omitempty"`
}

// UnmarshalJSON decodes the wire shape, splitting properties into the
// variant matching the layer type. Missing opacity decodes to 1 and a
// missing visible flag leaves the layer shown.
func (l *Layer) UnmarshalJSON(data []byte) error {
	var w wireLayer
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*l = Layer{
		ID:       w.ID,
		Name:     w.Name,
		Type:     w.Type,
		Role:     w.Role,
		X:        w.X,
		Y:        w.Y,
		Width:    w.Width,
		Height:   w.Height,
		Rotation: w.Rotation,
		Opacity:  1,
	}
	if w.Opacity != nil {
		l.Opacity = *w.Opacity
	}
	if w.Visible != nil {
		l.Hidden = !*w.Visible
	}

	props := w.Properties
	if props == nil {
		props = map[string]json.RawMessage{}
	}
	if raw, ok := props["opacity"]; ok && w.Opacity == nil {
		var v float64
		if err := json.Unmarshal(raw, &v); err == nil {
			l.Opacity = v
		}
	}
	delete(props, "opacity")

	d := propDecoder{props: props}
	switch {
	case l.Type.IsTextual():
		l.Text = &TextProps{
			Text:          d.str("text"),
			FontFamily:    d.str("fontFamily"),
			FontSize:      d.num("fontSize"),
			FontWeight:    d.weight("fontWeight"),
			Fill:          d.str("fill"),
			TextColor:     d.str("textColor"),
			Align:         d.str("align"),
			LineHeight:    d.optNum("lineHeight"),
			LetterSpacing: d.optNum("letterSpacing"),
			Padding:       d.optNum("padding"),
			CornerRadius:  d.optNum("cornerRadius"),
		}
	case l.Type.IsShape():
		l.Shape = &ShapeProps{
			Fill:         d.str("fill"),
			Stroke:       d.str("stroke"),
			StrokeWidth:  d.optNum("strokeWidth"),
			CornerRadius: d.optNum("cornerRadius"),
		}
	}
	if d.has("shadowEnabled", "shadowColor", "shadowBlur", "shadowOffsetX", "shadowOffsetY", "shadowOpacity") {
		l.Shadow = &Shadow{
			Enabled: d.boolean("shadowEnabled"),
			Color:   d.str("shadowColor"),
			Blur:    d.num("shadowBlur"),
			OffsetX: d.num("shadowOffsetX"),
			OffsetY: d.num("shadowOffsetY"),
			Opacity: d.num("shadowOpacity"),
		}
	}
	if d.err != nil {
		return fmt.Errorf("layer %q: %w", w.Name, d.err)
	}
	if len(props) > 0 {
		l.Extra = props
	}
	return nil
}

// MarshalJSON encodes the layer back into the wire shape, folding the
// variant and Extra into properties.
func (l Layer) MarshalJSON() ([]byte, error) {
	props := make(map[string]any, len(l.Extra)+8)
	for k, v := range l.Extra {
		props[k] = v
	}
	if t := l.Text; t != nil {
		props["text"] = t.Text
		setStr(props, "fontFamily", t.FontFamily)
		if t.FontSize != 0 {
			props["fontSize"] = t.FontSize
		}
		if t.FontWeight != "" {
			if n, err := strconv.Atoi(t.FontWeight); err == nil {
				props["fontWeight"] = n
			} else {
				props["fontWeight"] = t.FontWeight
			}
		}
		setStr(props, "fill", t.Fill)
		setStr(props, "textColor", t.TextColor)
		setStr(props, "align", t.Align)
		setNum(props, "lineHeight", t.LineHeight)
		setNum(props, "letterSpacing", t.LetterSpacing)
		setNum(props, "padding", t.Padding)
		setNum(props, "cornerRadius", t.CornerRadius)
	}
	if s := l.Shape; s != nil {
		setStr(props, "fill", s.Fill)
		setStr(props, "stroke", s.Stroke)
		setNum(props, "strokeWidth", s.StrokeWidth)
		setNum(props, "cornerRadius", s.CornerRadius)
	}
	if sh := l.Shadow; sh != nil {
		props["shadowEnabled"] = sh.Enabled
		setStr(props, "shadowColor", sh.Color)
		props["shadowBlur"] = sh.Blur
		props["shadowOffsetX"] = sh.OffsetX
		props["shadowOffsetY"] = sh.OffsetY
		props["shadowOpacity"] = sh.Opacity
	}

	w := struct {
		ID         string         `json:"id"`
		Name       string         `json:"name"`
		Type       Type           `json:"type"`
		Role       Role           `json:"role,omitempty"`
		X          float64        `json:"x"`
		Y          float64        `json:"y"`
		Width      float64        `json:"width"`
		Height     float64        `json:"height"`
		Rotation   float64        `json:"rotation"`
		Opacity    float64        `json:"opacity"`
		Visible    bool           `json:"visible"`
		Properties map[string]any `json:"properties"`
	}{l.ID, l.Name, l.Type, l.Role, l.X, l.Y, l.Width, l.Height, l.Rotation, l.Opacity, !l.Hidden, props}
	return json.Marshal(w)
}

func setStr(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}

func setNum(m map[string]any, key string, v *float64) {
	if v != nil {
		m[key] = *v
	}
}

// propDecoder consumes known keys from a properties object, leaving unknown
// keys behind for Extra. The first decode error is kept.
type propDecoder struct {
	props map[string]json.RawMessage
	err   error
}

func (d *propDecoder) take(key string, dst any) bool {
	raw, ok := d.props[key]
	if !ok {
		return false
	}
	delete(d.props, key)
	if string(raw) == "null" {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		if d.err == nil {
			d.err = fmt.Errorf("property %s: %w", key, err)
		}
		return false
	}
	return true
}

func (d *propDecoder) has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := d.props[k]; ok {
			return true
		}
	}
	return false
}

func (d *propDecoder) str(key string) string {
	var s string
	d.take(key, &s)
	return s
}

func (d *propDecoder) num(key string) float64 {
	var v float64
	d.take(key, &v)
	return v
}

func (d *propDecoder) optNum(key string) *float64 {
	var v float64
	if !d.take(key, &v) {
		return nil
	}
	return &v
}

func (d *propDecoder) boolean(key string) bool {
	var b bool
	d.take(key, &b)
	return b
}

// weight accepts fontWeight as either a JSON string ("bold", "600") or a
// bare number (600).
func (d *propDecoder) weight(key string) string {
	var v any
	if !d.take(key, &v) {
		return ""
	}
	switch w := v.(type) {
	case string:
		return w
	case float64:
		return strconv.FormatFloat(w, 'f', -1, 64)
	}
	return ""
}

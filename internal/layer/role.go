package layer

import "strings"

// Role tags the semantic purpose of a layer within a template.
type Role string

const (
	RoleNone       Role = ""
	RoleHeadline   Role = "headline"
	RoleSubtext    Role = "subtext"
	RoleCTA        Role = "cta"
	RoleBackground Role = "background"
	RoleAccent     Role = "accent"
	RoleImage      Role = "image"
)

// Name keywords used when a layer arrives without an explicit role.
var (
	HeadlineKeywords = []string{"headline", "title", "header", "heading", "h1", "h2"}
	SubtextKeywords  = []string{"subtext", "subtitle", "description", "body", "tagline", "sub"}
	CTAKeywords      = []string{"cta", "button", "action"}
)

// EffectiveRole returns the explicit role when set, else the role inferred
// from the layer's name and type.
func (l Layer) EffectiveRole() Role {
	if l.Role != RoleNone {
		return l.Role
	}
	return InferRole(l.Name, l.Type)
}

// InferRole guesses a role from a layer name and type. Textboxes are always
// calls to action; the headline and subtext roles only apply to text.
func InferRole(name string, t Type) Role {
	n := strings.ToLower(name)
	switch {
	case t == TypeImage:
		return RoleImage
	case strings.HasPrefix(n, "overlay") || strings.Contains(n, "scrim"):
		return RoleNone
	case t == TypeTextbox || containsAny(n, CTAKeywords...):
		return RoleCTA
	case t.IsTextual() && containsAny(n, SubtextKeywords...):
		return RoleSubtext
	case t.IsTextual() && containsAny(n, HeadlineKeywords...):
		return RoleHeadline
	case containsAny(n, "background", "bg"):
		return RoleBackground
	case containsAny(n, "accent", "highlight"):
		return RoleAccent
	}
	return RoleNone
}

// IsCTA reports whether the layer acts as a call to action.
func (l Layer) IsCTA() bool {
	return l.EffectiveRole() == RoleCTA
}

// Find returns the index of the first layer whose effective role is r, or -1.
func Find(layers []Layer, r Role) int {
	for i, l := range layers {
		if l.EffectiveRole() == r {
			return i
		}
	}
	return -1
}

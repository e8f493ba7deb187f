package sqlgen

// Generator renders both scripts in one output format.
type Generator struct {
	renderer Renderer
	facility Facility
}

func New(format Format, facility Facility) *Generator {
	return &Generator{
		renderer: NewRenderer(format),
		facility: facility.withDefaults(),
	}
}

// OrganizationAndLogins renders the user_group / users transaction. The caller
// must not invoke it with an empty organization name.
func (g *Generator) OrganizationAndLogins(in UsersInput) (string, error) {
	return g.renderer.Render(UsersScript(in))
}

// Members renders the member transaction, or NoMembersPlaceholder when there
// are no accounts.
func (g *Generator) Members(in MembersInput) (string, error) {
	script, ok := MembersScript(in, g.facility)
	if !ok {
		return NoMembersPlaceholder, nil
	}
	return g.renderer.Render(script)
}

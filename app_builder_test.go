package gekko2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type MockModule struct {
	installed bool
	order     *[]string
}

func (m *MockModule) Install(app *App, commands *Commands) {
	m.installed = true
	if m.order != nil {
		*m.order = append(*m.order, "first")
	}
}

type MockModule2 struct {
	installed bool
	order     *[]string
}

func (m *MockModule2) Install(app *App, commands *Commands) {
	m.installed = true
	if m.order != nil {
		*m.order = append(*m.order, "second")
	}
}

func TestAppBuilder_DefaultStages(t *testing.T) {
	app := NewAppBuilder().Build()

	assert.Equal(t, []string{"PreUpdate", "Update", "PostUpdate", "Render"}, app.Stages())
	assert.Empty(t, app.modules)
}

func TestAppBuilder_UseModule(t *testing.T) {
	var order []string
	module1 := &MockModule{order: &order}
	module2 := &MockModule2{order: &order}

	builder := NewAppBuilder()
	builder.UseModule(module1).UseModule(module2)

	assert.False(t, module1.installed, "modules install on Build")

	app := builder.Build()

	assert.True(t, module1.installed)
	assert.True(t, module2.installed)
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Len(t, app.modules, 2)
}

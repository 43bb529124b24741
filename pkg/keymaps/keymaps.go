package keymaps

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

type KeyDefinition struct {
	DefaultKey string
	Help       string
}

// Action names are snake_case because config keys are case-insensitive.
var KeyDefinitions = map[string]KeyDefinition{
	"show_help":      {"?", "show/hide commands"},
	"quit_app":       {"q", "quit"},
	"toggle_status":  {"space,x", "toggle done"},
	"add_task":       {"a", "add task / item"},
	"edit_task":      {"e", "edit task / item"},
	"delete_task":    {"d", "delete task / item"},
	"open_checklist": {"enter,c", "open checklist"},
	"toggle_sort_by": {"s", "toggle deadline/manual order"},
	"move_up":        {"K,shift+up", "move up"},
	"move_down":      {"J,shift+down", "move down"},
	"reload":         {"r", "reload from disk"},
	"logout":         {"L", "log out"},
	"back":           {"esc", "back / cancel"},
	"submit":         {"enter", "save form"},
	"next_field":     {"tab", "next field"},
	"prev_field":     {"shift+tab", "previous field"},
	"cycle_category": {"ctrl+n", "next category"},
}

// ActionOrder is the order actions are listed in the help view
var ActionOrder = []string{
	"show_help", "quit_app", "toggle_status", "add_task", "edit_task",
	"delete_task", "open_checklist", "toggle_sort_by", "move_up", "move_down",
	"reload", "logout", "back", "submit", "next_field", "prev_field",
	"cycle_category",
}

type KeyMap struct {
	ShowHelp      key.Binding
	QuitApp       key.Binding
	ToggleStatus  key.Binding
	AddTask       key.Binding
	EditTask      key.Binding
	DeleteTask    key.Binding
	OpenChecklist key.Binding
	ToggleSortBy  key.Binding
	MoveUp        key.Binding
	MoveDown      key.Binding
	Reload        key.Binding
	Logout        key.Binding
	Back          key.Binding
	Submit        key.Binding
	NextField     key.Binding
	PrevField     key.Binding
	CycleCategory key.Binding
}

func (km *KeyMap) bindings() map[string]*key.Binding {
	return map[string]*key.Binding{
		"show_help":      &km.ShowHelp,
		"quit_app":       &km.QuitApp,
		"toggle_status":  &km.ToggleStatus,
		"add_task":       &km.AddTask,
		"edit_task":      &km.EditTask,
		"delete_task":    &km.DeleteTask,
		"open_checklist": &km.OpenChecklist,
		"toggle_sort_by": &km.ToggleSortBy,
		"move_up":        &km.MoveUp,
		"move_down":      &km.MoveDown,
		"reload":         &km.Reload,
		"logout":         &km.Logout,
		"back":           &km.Back,
		"submit":         &km.Submit,
		"next_field":     &km.NextField,
		"prev_field":     &km.PrevField,
		"cycle_category": &km.CycleCategory,
	}
}

// BuildKeyMap builds the bindings from the defaults and the configured
// overrides. Override names match case-insensitively and may use the
// CamelCase form of older config files (QuitApp for quit_app).
func BuildKeyMap(configOverrides map[string]string) KeyMap {
	overrides := make(map[string]string, len(configOverrides))
	for action, keys := range configOverrides {
		overrides[normalizeAction(action)] = keys
	}

	km := KeyMap{}
	for action, binding := range km.bindings() {
		def := KeyDefinitions[action]
		keyStr := def.DefaultKey
		if override, exists := overrides[normalizeAction(action)]; exists && strings.TrimSpace(override) != "" {
			keyStr = override
		}
		*binding = parseKeyBinding(keyStr, def.DefaultKey, def.Help)
	}
	return km
}

// Help returns the bindings in ActionOrder for the help view.
func (km KeyMap) Help() []key.Binding {
	all := km.bindings()
	out := make([]key.Binding, 0, len(ActionOrder))
	for _, action := range ActionOrder {
		out = append(out, *all[action])
	}
	return out
}

func normalizeAction(action string) string {
	return strings.ToLower(strings.ReplaceAll(action, "_", ""))
}

func parseKeyBinding(keyStr, defaultKey, helpText string) key.Binding {
	if keyStr == "" {
		keyStr = defaultKey
	}

	// Handle multiple keys separated by commas
	var keys []string
	for _, k := range strings.Split(keyStr, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		keys = []string{defaultKey}
	}

	helpKey := keys[0]
	for i, k := range keys {
		// bubbletea reports the space bar as " "
		if k == "space" {
			keys[i] = " "
		}
	}

	return key.NewBinding(
		key.WithKeys(keys...),
		key.WithHelp(helpKey, helpText),
	)
}

// GetDefaultKeyMappings returns the default key mappings for configuration
func GetDefaultKeyMappings() map[string]string {
	keyMappings := make(map[string]string)
	for action, def := range KeyDefinitions {
		keyMappings[action] = def.DefaultKey
	}
	return keyMappings
}

package catalog

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

/* Loader manages the business event catalog from catalog.yaml
 * The engine itself never validates event types; the catalog lets the
 * HTTP edge and producers agree on the known names and sample shapes
 */

// Known business event types emitted by the dashboard
const (
	EventLinkCreated    = "link_created"
	EventTaskCompleted  = "task_completed"
	EventPayoutReceived = "payout_received"
	EventAccountCreated = "account_created"
	EventContentPosted  = "content_posted"
	EventErrorOccurred  = "error_occurred"
	EventNeuralErrorLog = "neural_error_log"
	EventStructureSync  = "structure_sync"
)

// eventNamePattern validates event names: lowercase words joined by underscores
var eventNamePattern = regexp.MustCompile(`^[a-z0-9]+(_[a-z0-9]+)*$`)

// Config represents the structure of catalog.yaml
type Config struct {
	Events []EventDef `yaml:"events"`
}

// EventDef describes one business event type
type EventDef struct {
	Name        string         `yaml:"name" json:"name"`
	Description string         `yaml:"description" json:"description"`
	Sample      map[string]any `yaml:"sample" json:"sample,omitempty"`
}

// Validate checks if the event definition is valid
func (d EventDef) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("event name cannot be empty")
	}
	if !eventNamePattern.MatchString(d.Name) {
		return fmt.Errorf("event name must be lowercase words joined by underscores: %s", d.Name)
	}
	return nil
}

// Loader holds the loaded event definitions
type Loader struct {
	events map[string]EventDef
	order  []string
}

// NewLoader creates an empty catalog loader
func NewLoader() *Loader {
	return &Loader{
		events: make(map[string]EventDef),
	}
}

/* Default returns the built-in catalog covering every event type the
 * dashboard produces, so the API works without a catalog file
 */
func Default() *Loader {
	l := NewLoader()
	defs := []EventDef{
		{Name: EventLinkCreated, Description: "A trackable link was created"},
		{Name: EventTaskCompleted, Description: "A scheduled task finished"},
		{Name: EventPayoutReceived, Description: "An affiliate payout arrived"},
		{Name: EventAccountCreated, Description: "A managed account was added"},
		{Name: EventContentPosted, Description: "Scheduled content went live"},
		{Name: EventErrorOccurred, Description: "A producer reported a failure"},
		{Name: EventNeuralErrorLog, Description: "Diagnostic error report"},
	}
	for _, def := range defs {
		l.events[def.Name] = def
		l.order = append(l.order, def.Name)
	}
	return l
}

// Load reads and parses a catalog.yaml file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading catalog file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return fmt.Errorf("parsing catalog YAML: %w", err)
	}

	for _, def := range config.Events {
		if err := def.Validate(); err != nil {
			return fmt.Errorf("validating event: %w", err)
		}
		if _, exists := l.events[def.Name]; !exists {
			l.order = append(l.order, def.Name)
		}
		l.events[def.Name] = def
	}

	return nil
}

// Get retrieves an event definition by name
func (l *Loader) Get(name string) (EventDef, error) {
	def, exists := l.events[name]
	if !exists {
		return EventDef{}, fmt.Errorf("event type not found: %s", name)
	}
	return def, nil
}

// List returns all event definitions in load order
func (l *Loader) List() []EventDef {
	defs := make([]EventDef, 0, len(l.order))
	for _, name := range l.order {
		defs = append(defs, l.events[name])
	}
	return defs
}

// Exists checks if an event name is in the catalog
func (l *Loader) Exists(name string) bool {
	_, exists := l.events[name]
	return exists
}

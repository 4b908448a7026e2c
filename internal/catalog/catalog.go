// Package catalog holds the built-in task definitions. The catalog is
// static: tasks are defined at build time and never mutated.
package catalog

import (
	"errors"

	"github.com/mfeller/questlog/internal/tracking/domain"
)

// ErrTaskNotFound is returned when a task identifier is not in the catalog.
var ErrTaskNotFound = errors.New("task not found in catalog")

// Category groups related tasks for breakdown views.
type Category string

const (
	CategoryLearning     Category = "Learning"
	CategoryFitness      Category = "Fitness"
	CategoryCreativity   Category = "Creativity"
	CategoryWellness     Category = "Wellness"
	CategoryProductivity Category = "Productivity"
	CategorySocial       Category = "Social"
)

func (c Category) String() string { return string(c) }

// TaskDefinition describes one built-in task. BasePoints is always
// positive; SupportsDuration marks tasks where session length matters
// for scoring.
type TaskDefinition struct {
	ID               string
	Name             string
	Category         Category
	BasePoints       int
	DefaultRarity    domain.Rarity
	SupportsDuration bool
}

// Catalog is a read-only lookup from task identifier to definition.
type Catalog struct {
	byID  map[string]TaskDefinition
	order []string
}

// New builds a catalog from the given definitions.
func New(tasks []TaskDefinition) *Catalog {
	c := &Catalog{byID: make(map[string]TaskDefinition, len(tasks))}
	for _, t := range tasks {
		if _, dup := c.byID[t.ID]; dup {
			continue
		}
		c.byID[t.ID] = t
		c.order = append(c.order, t.ID)
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(defaultTasks)
}

// Lookup returns the definition for a task identifier.
func (c *Catalog) Lookup(taskID string) (TaskDefinition, error) {
	t, ok := c.byID[taskID]
	if !ok {
		return TaskDefinition{}, ErrTaskNotFound
	}
	return t, nil
}

// Category resolves a task identifier to its category name. It reports
// false for identifiers no longer in the catalog, letting aggregation
// skip dangling entries instead of failing.
func (c *Catalog) Category(taskID string) (string, bool) {
	t, ok := c.byID[taskID]
	if !ok {
		return "", false
	}
	return t.Category.String(), true
}

// All returns every definition in catalog order.
func (c *Catalog) All() []TaskDefinition {
	tasks := make([]TaskDefinition, 0, len(c.order))
	for _, id := range c.order {
		tasks = append(tasks, c.byID[id])
	}
	return tasks
}

var defaultTasks = []TaskDefinition{
	{ID: "coding", Name: "Coding/Programming", Category: CategoryLearning, BasePoints: 100, DefaultRarity: domain.RarityUncommon, SupportsDuration: true},
	{ID: "reading", Name: "Reading", Category: CategoryLearning, BasePoints: 80, DefaultRarity: domain.RarityCommon, SupportsDuration: true},
	{ID: "online-course", Name: "Online Course", Category: CategoryLearning, BasePoints: 90, DefaultRarity: domain.RarityUncommon, SupportsDuration: true},
	{ID: "language-learning", Name: "Language Learning", Category: CategoryLearning, BasePoints: 85, DefaultRarity: domain.RarityUncommon, SupportsDuration: true},
	{ID: "exercise", Name: "Exercise/Gym", Category: CategoryFitness, BasePoints: 120, DefaultRarity: domain.RarityRare, SupportsDuration: true},
	{ID: "running", Name: "Running", Category: CategoryFitness, BasePoints: 110, DefaultRarity: domain.RarityUncommon, SupportsDuration: true},
	{ID: "yoga", Name: "Yoga", Category: CategoryFitness, BasePoints: 90, DefaultRarity: domain.RarityUncommon, SupportsDuration: true},
	{ID: "drawing", Name: "Drawing/Painting", Category: CategoryCreativity, BasePoints: 95, DefaultRarity: domain.RarityUncommon, SupportsDuration: true},
	{ID: "music-practice", Name: "Music Practice", Category: CategoryCreativity, BasePoints: 100, DefaultRarity: domain.RarityRare, SupportsDuration: true},
	{ID: "writing", Name: "Writing", Category: CategoryCreativity, BasePoints: 90, DefaultRarity: domain.RarityUncommon, SupportsDuration: true},
	{ID: "meditation", Name: "Meditation", Category: CategoryWellness, BasePoints: 70, DefaultRarity: domain.RarityCommon, SupportsDuration: true},
	{ID: "journaling", Name: "Journaling", Category: CategoryWellness, BasePoints: 60, DefaultRarity: domain.RarityCommon, SupportsDuration: false},
	{ID: "meal-prep", Name: "Meal Prep", Category: CategoryWellness, BasePoints: 80, DefaultRarity: domain.RarityUncommon, SupportsDuration: false},
	{ID: "cleaning", Name: "Cleaning/Organizing", Category: CategoryProductivity, BasePoints: 75, DefaultRarity: domain.RarityCommon, SupportsDuration: true},
	{ID: "planning", Name: "Daily Planning", Category: CategoryProductivity, BasePoints: 65, DefaultRarity: domain.RarityCommon, SupportsDuration: false},
	{ID: "deep-work", Name: "Deep Work Session", Category: CategoryProductivity, BasePoints: 150, DefaultRarity: domain.RarityLegendary, SupportsDuration: true},
	{ID: "networking", Name: "Networking", Category: CategorySocial, BasePoints: 85, DefaultRarity: domain.RarityUncommon, SupportsDuration: false},
	{ID: "mentoring", Name: "Mentoring/Teaching", Category: CategorySocial, BasePoints: 110, DefaultRarity: domain.RarityRare, SupportsDuration: true},
}

package arch

import "fmt"

// Model bundles the three C4 views produced for one system, the unit
// the Architecture Annotation Interface mutates.
type Model struct {
	Context    Context        `json:"context"`
	Containers ContainerModel `json:"containers"`
	Components ComponentModel `json:"components"`
}

// Clone deep-copies a Model so annotation operations never mutate the
// inferred model the caller already holds.
func (m Model) Clone() Model {
	clone := Model{
		Context: Context{
			System:          m.Context.System,
			Actors:          append([]string(nil), m.Context.Actors...),
			ExternalSystems: append([]string(nil), m.Context.ExternalSystems...),
			Relationships:   append([]Relationship(nil), m.Context.Relationships...),
		},
		Containers: ContainerModel{
			System:        m.Containers.System,
			Containers:    append([]ContainerDef(nil), m.Containers.Containers...),
			Relationships: append([]Relationship(nil), m.Containers.Relationships...),
		},
		Components: ComponentModel{
			Containers:    make(map[string][]ComponentDef, len(m.Components.Containers)),
			Relationships: make(map[string][]Relationship, len(m.Components.Relationships)),
		},
	}

	for k, v := range m.Components.Containers {
		clone.Components.Containers[k] = append([]ComponentDef(nil), v...)
	}

	for k, v := range m.Components.Relationships {
		clone.Components.Relationships[k] = append([]Relationship(nil), v...)
	}

	return clone
}

// Question is one confirmation question surfaced by GenerateQuestions.
type Question struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// GenerateQuestions produces, bounded by maxQuestions, a set of
// confirmation questions over the inferred model: one per container
// asking whether its inferred type is correct
// Architecture Annotation Interface.
func GenerateQuestions(model Model, maxQuestions int) []Question {
	var questions []Question

	for _, c := range model.Containers.Containers {
		if maxQuestions > 0 && len(questions) >= maxQuestions {
			break
		}

		questions = append(questions, Question{
			ID:   "confirm-type-" + c.ID,
			Text: fmt.Sprintf("Is %q correctly classified as %q?", c.Name, c.Type),
		})
	}

	return questions
}

// OperationKind is the fixed set of mutations the annotation
// interface accepts
type OperationKind string

const (
	SetSystemName              OperationKind = "set_system_name"
	RenameContainer             OperationKind = "rename_container"
	RetypeContainer             OperationKind = "retype_container"
	RedescribeContainer         OperationKind = "redescribe_container"
	AddContainerRelationship    OperationKind = "add_container_relationship"
	RemoveContainerRelationship OperationKind = "remove_container_relationship"
	RenameComponent             OperationKind = "rename_component"
	RedescribeComponent         OperationKind = "redescribe_component"
	AddComponentRelationship    OperationKind = "add_component_relationship"
	RemoveComponentRelationship OperationKind = "remove_component_relationship"
	ConfirmQuestion             OperationKind = "confirm_question"
	RejectQuestion              OperationKind = "reject_question"
)

// Operation is one requested mutation of an inferred Model.
type Operation struct {
	Kind        OperationKind `json:"kind"`
	TargetID    string        `json:"target_id"`
	Value       string        `json:"value,omitempty"`
	RelatedID   string        `json:"related_id,omitempty"`
	Description string        `json:"description,omitempty"`
}

// Rejected pairs a rejected Operation with the reason it failed.
type Rejected struct {
	Operation Operation `json:"operation"`
	Reason    string    `json:"reason"`
}

// ApplyResult is the outcome of Apply: the mutated model plus which
// operations succeeded or were rejected.
type ApplyResult struct {
	Model    Model       `json:"model"`
	Applied  []Operation `json:"applied"`
	Rejected []Rejected  `json:"rejected"`
}

// Apply mutates a deep copy of model with each operation in order.
// Invalid operations (unknown target, malformed request) are collected
// into Rejected with the failure reason rather than aborting the
// batch; valid operations are collected into Applied.
func Apply(model Model, ops []Operation) ApplyResult {
	result := ApplyResult{Model: model.Clone()}

	for _, op := range ops {
		if err := applyOne(&result.Model, op); err != nil {
			result.Rejected = append(result.Rejected, Rejected{Operation: op, Reason: err.Error()})
			continue
		}

		result.Applied = append(result.Applied, op)
	}

	return result
}

func applyOne(model *Model, op Operation) error {
	switch op.Kind {
	case SetSystemName:
		model.Context.System = op.Value
		model.Containers.System = op.Value

		return nil

	case RenameContainer:
		return mutateContainer(model, op.TargetID, func(c *ContainerDef) { c.Name = op.Value })

	case RetypeContainer:
		return mutateContainer(model, op.TargetID, func(c *ContainerDef) { c.Type = op.Value })

	case RedescribeContainer:
		return mutateContainer(model, op.TargetID, func(c *ContainerDef) { c.Technology = op.Value })

	case AddContainerRelationship:
		model.Containers.Relationships = append(model.Containers.Relationships, Relationship{
			Source: op.TargetID, Target: op.RelatedID, Description: op.Description, Weight: 1,
		})

		return nil

	case RemoveContainerRelationship:
		return removeRelationship(&model.Containers.Relationships, op.TargetID, op.RelatedID)

	case RenameComponent:
		return mutateComponent(model, op.TargetID, func(c *ComponentDef) { c.Name = op.Value })

	case RedescribeComponent:
		return mutateComponent(model, op.TargetID, func(c *ComponentDef) { c.Language = op.Value })

	case AddComponentRelationship:
		containerID, ok := containerOf(op.TargetID)
		if !ok {
			return fmt.Errorf("cannot derive container id from component id %q", op.TargetID)
		}

		model.Components.Relationships[containerID] = append(model.Components.Relationships[containerID], Relationship{
			Source: op.TargetID, Target: op.RelatedID, Description: op.Description, Weight: 1,
		})

		return nil

	case RemoveComponentRelationship:
		containerID, ok := containerOf(op.TargetID)
		if !ok {
			return fmt.Errorf("cannot derive container id from component id %q", op.TargetID)
		}

		rels := model.Components.Relationships[containerID]

		if err := removeRelationship(&rels, op.TargetID, op.RelatedID); err != nil {
			return err
		}

		model.Components.Relationships[containerID] = rels

		return nil

	case ConfirmQuestion, RejectQuestion:
		return nil

	default:
		return fmt.Errorf("unknown operation kind %q", op.Kind)
	}
}

func mutateContainer(model *Model, id string, mutate func(*ContainerDef)) error {
	for i := range model.Containers.Containers {
		if model.Containers.Containers[i].ID == id {
			mutate(&model.Containers.Containers[i])

			return nil
		}
	}

	return fmt.Errorf("no container with id %q", id)
}

func mutateComponent(model *Model, id string, mutate func(*ComponentDef)) error {
	for containerID, comps := range model.Components.Containers {
		for i := range comps {
			if comps[i].ID == id {
				mutate(&comps[i])
				model.Components.Containers[containerID] = comps

				return nil
			}
		}
	}

	return fmt.Errorf("no component with id %q", id)
}

func removeRelationship(rels *[]Relationship, source, target string) error {
	for i, r := range *rels {
		if r.Source == source && r.Target == target {
			*rels = append((*rels)[:i], (*rels)[i+1:]...)

			return nil
		}
	}

	return fmt.Errorf("no relationship %s -> %s", source, target)
}

func containerOf(componentID string) (string, bool) {
	for i := len(componentID) - 1; i >= 0; i-- {
		if componentID[i] == '.' {
			return componentID[:i], true
		}
	}

	return "", false
}

package views

import (
	"context"
	"strings"
	"unicode/utf8"

	"coachreports/internal/i18n"
	"coachreports/internal/models"
	"coachreports/internal/router"
	"coachreports/internal/store"
	"coachreports/internal/validation"
)

// Form field and routes of the class creation modal
const (
	ClassNameField   = "name"
	ModalOpenURL     = "/coach/classes/modal/open"
	ModalCancelURL   = "/coach/classes/modal/cancel"
	ModalSubmitURL   = "/coach/classes/create"
	errKeyRequired   = "validation.required"
	errKeyDuplicate  = "validation.class_duplicate"
	errKeyNameTooBig = "validation.class_too_long"
)

// CreateClassModal asks for a new class name. It checks the draft against the
// classrooms it was given and leaves creation and visibility to the actions.
type CreateClassModal struct {
	classrooms []models.Classroom
	actions    store.Actions
}

// NewCreateClassModal creates a modal validating against classrooms
func NewCreateClassModal(classrooms []models.Classroom, actions store.Actions) *CreateClassModal {
	return &CreateClassModal{classrooms: classrooms, actions: actions}
}

// SubmitResult reports what a submission did. ErrorKey is a message key for the inline error.
type SubmitResult struct {
	Draft     string
	ErrorKey  string
	Submitted bool
}

// IsDuplicate reports whether the trimmed draft matches an existing class name ignoring case
func (m *CreateClassModal) IsDuplicate(draft string) bool {
	return models.DuplicateName(m.classrooms, strings.TrimSpace(draft))
}

// Submit validates the draft; a valid name is created and the modal hidden, in that order
func (m *CreateClassModal) Submit(ctx context.Context, draft string) SubmitResult {
	name := strings.TrimSpace(draft)
	result := SubmitResult{Draft: name}

	switch {
	case name == "":
		result.ErrorKey = errKeyRequired
	case utf8.RuneCountInString(name) > validation.MaxClassNameLength:
		result.ErrorKey = errKeyNameTooBig
	case m.IsDuplicate(name):
		result.ErrorKey = errKeyDuplicate
	default:
		m.actions.CreateClass(ctx, name)
		m.actions.DisplayModal(ctx, false)
		result.Submitted = true
	}
	return result
}

// Cancel hides the modal without creating anything
func (m *CreateClassModal) Cancel(ctx context.Context) {
	m.actions.DisplayModal(ctx, false)
}

// CreateClassModalViewModel feeds the modal and its single text input
type CreateClassModalViewModel struct {
	Modal ModalProps
	Input TextInputProps
}

// Props renders the modal for draft, with an inline error when errorKey is set
func (m *CreateClassModal) Props(loc *i18n.Localizer, visible bool, draft, errorKey string) CreateClassModalViewModel {
	input := TextInputProps{
		Name:      ClassNameField,
		Label:     loc.T("modal.create_class.name"),
		Value:     draft,
		MaxLength: validation.MaxClassNameLength,
		Autofocus: true,
		Required:  true,
	}
	if errorKey != "" {
		input.Invalid = loc.T(errorKey)
	}

	return CreateClassModalViewModel{
		Modal: ModalProps{
			Title:      loc.T("modal.create_class.title"),
			Visible:    visible,
			SubmitURL:  ModalSubmitURL,
			CancelURL:  ModalCancelURL,
			SubmitText: loc.T("modal.save"),
			CancelText: loc.T("modal.cancel"),
		},
		Input: input,
	}
}

// ClassRowView is one classroom on the class list page
type ClassRowView struct {
	ID               string
	Name             string
	LearnerCountText string
	Reports          []Crumb
}

// ClassListViewModel is the class list page with its creation modal
type ClassListViewModel struct {
	Title      string
	Notice     string
	NewText    string
	OpenURL    string
	EmptyText  string
	Headers    []HeaderCellProps
	Classes    []ClassRowView
	CreateForm CreateClassModalViewModel
}

// ClassListView renders the classrooms with a report link per channel
type ClassListView struct {
	getters store.Getters
	actions store.Actions
}

func NewClassListView(getters store.Getters, actions store.Actions) *ClassListView {
	return &ClassListView{getters: getters, actions: actions}
}

// Modal returns the creation modal bound to the current classroom list
func (v *ClassListView) Modal(ctx context.Context) (*CreateClassModal, error) {
	classrooms, err := v.getters.Classrooms(ctx)
	if err != nil {
		return nil, err
	}
	return NewCreateClassModal(classrooms, v.actions), nil
}

// Render builds the page; draft and errorKey carry a rejected submission back into the modal
func (v *ClassListView) Render(ctx context.Context, loc *i18n.Localizer, draft, errorKey string) (*ClassListViewModel, error) {
	classrooms, err := v.getters.Classrooms(ctx)
	if err != nil {
		return nil, err
	}
	channels, err := v.getters.Channels(ctx)
	if err != nil {
		return nil, err
	}

	vm := &ClassListViewModel{
		Title:   loc.T("classes.title"),
		NewText: loc.T("classes.new"),
		OpenURL: ModalOpenURL,
		Headers: []HeaderCellProps{
			{Text: loc.T("classes.col.name"), Align: AlignStart},
			{Text: loc.T("classes.col.learners"), Align: AlignCenter},
			{Text: loc.T("classes.reports"), Align: AlignEnd},
		},
		Classes: make([]ClassRowView, 0, len(classrooms)),
	}
	if notice := v.getters.Notice(ctx); notice != "" {
		vm.Notice = loc.T(notice)
	}

	for _, c := range classrooms {
		row := ClassRowView{
			ID:               c.ID,
			Name:             c.Name,
			LearnerCountText: loc.T("classes.learner_count", c.LearnerCount),
		}
		for _, ch := range channels {
			row.Reports = append(row.Reports, Crumb{
				Text: ch.Title,
				Link: linkTo(router.Target{
					PageName: router.PageTopicItemList,
					Params:   router.Params{ClassID: c.ID, ChannelID: ch.ChannelID},
				}),
			})
		}
		vm.Classes = append(vm.Classes, row)
	}
	if len(vm.Classes) == 0 {
		vm.EmptyText = loc.T("classes.empty")
	}

	// a rejected draft keeps the modal open even if the session state says otherwise
	visible := v.getters.ModalVisible(ctx) || errorKey != ""
	vm.CreateForm = NewCreateClassModal(classrooms, v.actions).Props(loc, visible, draft, errorKey)
	return vm, nil
}

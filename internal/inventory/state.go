package inventory

import "github.com/sandeepkv93/product-inventory-admin/internal/domain"

type Phase int

const (
	Idle Phase = iota
	Loading
	Submitting
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Submitting:
		return "submitting"
	default:
		return "idle"
	}
}

type ConfirmAction string

const (
	ConfirmAdd    ConfirmAction = "add"
	ConfirmUpdate ConfirmAction = "update"
	ConfirmDelete ConfirmAction = "delete"
)

// Confirmation is a question waiting on the user before a mutation is sent.
type Confirmation struct {
	Action ConfirmAction
	ID     uint
}

func (c Confirmation) Prompt() string {
	return "Are you sure you want to " + string(c.Action) + " this product?"
}

type MutationKind int

const (
	MutationCreate MutationKind = iota
	MutationUpdate
	MutationDelete
)

// State is the whole UI state. Reduce never mutates a State in place; slices
// are replaced rather than edited.
type State struct {
	Phase      Phase
	Products   []domain.Product
	Visible    []domain.Product
	Categories []string
	Draft      Draft
	EditID     uint
	Search     string
	Category   string
	Pending    *Confirmation
	Notice     string
	Err        error
}

func (s State) Editing() bool { return s.EditID != 0 }

// Busy reports whether submit, edit and delete are disabled.
func (s State) Busy() bool { return s.Phase != Idle }

type Event interface{ event() }

type (
	Mounted        struct{}
	FetchCompleted struct {
		Products []domain.Product
		Err      error
	}
	FieldChanged struct {
		Field string
		Value string
	}
	EditRequested        struct{ Product domain.Product }
	EditCancelled        struct{}
	SubmitRequested      struct{}
	DeleteRequested      struct{ ID uint }
	ConfirmationAnswered struct{ Accepted bool }
	MutationCompleted    struct {
		Kind    MutationKind
		Message string
		Err     error
	}
	SearchChanged         struct{ Text string }
	CategoryFilterChanged struct{ Category string }
)

func (Mounted) event() {}
func (FetchCompleted) event() {}
func (FieldChanged) event() {}
func (EditRequested) event() {}
func (EditCancelled) event() {}
func (SubmitRequested) event() {}
func (DeleteRequested) event() {}
func (ConfirmationAnswered) event() {}
func (MutationCompleted) event() {}
func (SearchChanged) event() {}
func (CategoryFilterChanged) event() {}

// Command describes a side effect for the caller to perform.
type Command interface{ command() }

type (
	NoCommand    struct{}
	FetchCommand struct {
		// Visible fetches put the UI into Loading; refreshes after a save do not.
		Visible bool
	}
	CreateCommand struct{ Draft Draft }
	UpdateCommand struct {
		ID    uint
		Draft Draft
	}
	DeleteCommand struct{ ID uint }
)

func (NoCommand) command() {}
func (FetchCommand) command() {}
func (CreateCommand) command() {}
func (UpdateCommand) command() {}
func (DeleteCommand) command() {}

func Reduce(s State, ev Event) (State, Command) {
	switch ev := ev.(type) {
	case Mounted:
		s.Phase = Loading
		return s, FetchCommand{Visible: true}

	case FetchCompleted:
		if ev.Err != nil {
			s.Products = []domain.Product{}
			s.Err = ev.Err
		} else {
			s.Products = append([]domain.Product(nil), ev.Products...)
		}
		s.Categories = Categories(s.Products)
		if s.Phase == Loading {
			s.Phase = Idle
		}
		return derive(s), NoCommand{}

	case FieldChanged:
		s.Draft = s.Draft.With(ev.Field, ev.Value)
		return s, NoCommand{}

	case EditRequested:
		if s.Busy() {
			return s, NoCommand{}
		}
		s.Draft = DraftFromProduct(ev.Product)
		s.EditID = ev.Product.ID
		s.Notice = ""
		return s, NoCommand{}

	case EditCancelled:
		s.Draft = Draft{}
		s.EditID = 0
		s.Pending = nil
		return s, NoCommand{}

	case SubmitRequested:
		if s.Busy() || s.Pending != nil {
			return s, NoCommand{}
		}
		c := Confirmation{Action: ConfirmAdd}
		if s.Editing() {
			c = Confirmation{Action: ConfirmUpdate, ID: s.EditID}
		}
		s.Pending = &c
		return s, NoCommand{}

	case DeleteRequested:
		if s.Busy() || s.Pending != nil {
			return s, NoCommand{}
		}
		s.Pending = &Confirmation{Action: ConfirmDelete, ID: ev.ID}
		return s, NoCommand{}

	case ConfirmationAnswered:
		if s.Pending == nil {
			return s, NoCommand{}
		}
		c := *s.Pending
		s.Pending = nil
		if !ev.Accepted {
			return s, NoCommand{}
		}
		s.Phase = Submitting
		s.Err = nil
		switch c.Action {
		case ConfirmUpdate:
			return s, UpdateCommand{ID: c.ID, Draft: s.Draft}
		case ConfirmDelete:
			return s, DeleteCommand{ID: c.ID}
		default:
			return s, CreateCommand{Draft: s.Draft}
		}

	case MutationCompleted:
		s.Phase = Idle
		if ev.Err != nil {
			s.Err = ev.Err
			return s, NoCommand{}
		}
		s.Notice = ev.Message
		if ev.Kind == MutationDelete {
			s.Phase = Loading
			return s, FetchCommand{Visible: true}
		}
		s.Draft = Draft{}
		s.EditID = 0
		return s, FetchCommand{Visible: false}

	case SearchChanged:
		s.Search = ev.Text
		return derive(s), NoCommand{}

	case CategoryFilterChanged:
		s.Category = ev.Category
		return derive(s), NoCommand{}
	}
	return s, NoCommand{}
}

func derive(s State) State {
	s.Visible = FilterProducts(s.Products, s.Search, s.Category)
	return s
}

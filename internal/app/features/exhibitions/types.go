// internal/app/features/exhibitions/types.go
package exhibitions

import (
	"github.com/dalemusser/exhibithub/internal/app/system/formutil"
	"github.com/dalemusser/exhibithub/internal/app/system/paging"
	"github.com/dalemusser/exhibithub/internal/app/system/tablestate"
)

// createInput defines validation rules for the New Exhibition form.
type createInput struct {
	MuseumID    string `form:"museum_id" validate:"required" label:"museum"`
	Title       string `form:"title" validate:"required,max=300" label:"title"`
	StartDate   string `form:"start_date" validate:"omitempty,civildate" label:"start date"`
	EndDate     string `form:"end_date" validate:"omitempty,civildate" label:"end date"`
	OfficialURL string `form:"official_url" validate:"omitempty,max=2000,httpurl" label:"official URL"`
	ImageURL    string `form:"image_url" validate:"omitempty,max=2000,httpurl" label:"image URL"`
	Status      string `form:"status" validate:"omitempty,exhibitionstatus" label:"status"`
}

// editInput defines validation rules for the Edit Exhibition form. The
// museum and venue cannot be changed once an exhibition exists.
type editInput struct {
	Title       string `form:"title" validate:"required,max=300" label:"title"`
	StartDate   string `form:"start_date" validate:"omitempty,civildate" label:"start date"`
	EndDate     string `form:"end_date" validate:"omitempty,civildate" label:"end date"`
	OfficialURL string `form:"official_url" validate:"omitempty,max=2000,httpurl" label:"official URL"`
	ImageURL    string `form:"image_url" validate:"omitempty,max=2000,httpurl" label:"image URL"`
	Status      string `form:"status" validate:"omitempty,exhibitionstatus" label:"status"`
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

// formData is the view model for the new and edit forms.
type formData struct {
	formutil.Base

	IsEdit      bool
	ID          string
	MuseumID    string
	Venue       string
	ExhTitle    string // exhibition title; Title is the page title
	StartDate   string
	EndDate     string
	OfficialURL string
	ImageURL    string
	Status      string

	Museums  []option
	Statuses []option
}

// listRow is one exhibition as shown in the table.
type listRow struct {
	ID          string
	Title       string
	Venue       string
	MuseumID    string
	StartDate   string
	EndDate     string
	EventStatus string
	Status      string
	Active      bool
	Visible     bool
	Origin      string
	OfficialURL string
	ImageURL    string
	Excluded    bool
	CreatedAt   string
	UpdatedAt   string
}

// column is a sortable table header.
type column struct {
	Field string
	Label string
	Dir   tablestate.Direction
	URL   string
}

// pageLink is one entry of the numbered pager.
type pageLink struct {
	Number   int
	URL      string
	Current  bool
	Ellipsis bool
}

// listData is the view model for both listings.
type listData struct {
	formutil.Base

	Excluded   bool
	ListPath   string
	ReturnURL  string
	Rows       []listRow
	Columns    []column
	TotalCount int64
	Shown      int

	Pager     paging.Pager
	PageLinks []pageLink
	PrevURL   string
	NextURL   string

	// filter form
	FilterTitle   string
	FilterVenue   string
	StatusOptions []option
	VisibleOpts   []option
	EventOptions  []option
	MuseumOptions []option
	Filtered      bool
	ClearURL      string
}

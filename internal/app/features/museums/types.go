// internal/app/features/museums/types.go
package museums

import (
	"html/template"

	"github.com/dalemusser/exhibithub/internal/app/system/formutil"
	"github.com/dalemusser/exhibithub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// museumInput defines validation rules for the museum form.
type museumInput struct {
	Name               string `form:"name" validate:"required,max=200" label:"name"`
	Address            string `form:"address" validate:"required,max=500" label:"address"`
	Access             string `form:"access" validate:"required,max=1000" label:"access"`
	OpeningInformation string `form:"opening_information" validate:"max=5000" label:"opening information"`
	VenueType          string `form:"venue_type" validate:"required,venuetype" label:"venue type"`
	Area               string `form:"area" validate:"required,area" label:"area"`
	Region             string `form:"region" validate:"required,region" label:"region"`
	OfficialURL        string `form:"official_url" validate:"required,max=2000,httpurl" label:"official URL"`
	ScrapeURL          string `form:"scrape_url" validate:"required,max=2000,httpurl" label:"scrape URL"`
	ScrapeEnabled      bool   `form:"scrape_enabled"`
}

func (in museumInput) model() models.Museum {
	return models.Museum{
		Name:               in.Name,
		Address:            in.Address,
		Access:             in.Access,
		OpeningInformation: in.OpeningInformation,
		VenueType:          in.VenueType,
		Area:               in.Area,
		Region:             in.Region,
		OfficialURL:        in.OfficialURL,
		ScrapeURL:          in.ScrapeURL,
		ScrapeEnabled:      in.ScrapeEnabled,
	}
}

func inputFrom(m models.Museum) museumInput {
	return museumInput{
		Name:               m.Name,
		Address:            m.Address,
		Access:             m.Access,
		OpeningInformation: m.OpeningInformation,
		VenueType:          m.VenueType,
		Area:               m.Area,
		Region:             m.Region,
		OfficialURL:        m.OfficialURL,
		ScrapeURL:          m.ScrapeURL,
		ScrapeEnabled:      m.ScrapeEnabled,
	}
}

type option struct {
	Value    string
	Selected bool
}

func selectOptions(values []string, selected string) []option {
	out := make([]option, 0, len(values))
	for _, v := range values {
		out = append(out, option{Value: v, Selected: v == selected})
	}
	return out
}

// formData is the view model for the new and edit forms.
type formData struct {
	formutil.Base
	Form museumInput

	IsEdit          bool
	ID              string
	ExhibitionCount int64

	VenueTypes []option
	Areas      []option
	Regions    []option
}

func newFormData(in museumInput) formData {
	return formData{
		Form:       in,
		VenueTypes: selectOptions(models.VenueTypes, in.VenueType),
		Areas:      selectOptions(models.Areas, in.Area),
		Regions:    selectOptions(models.Regions, in.Region),
	}
}

// listItem is one museum row.
type listItem struct {
	ID            primitive.ObjectID
	Name          string
	NameCI        string
	VenueType     string
	Area          string
	OfficialURL   string
	ScrapeEnabled bool
	Opening       template.HTML
}

// listData is the view model for the museum listing.
type listData struct {
	formutil.Base

	Q     string
	Items []listItem

	Shown      int
	Total      int64
	HasPrev    bool
	HasNext    bool
	PrevCursor string
	NextCursor string
	RangeStart int
	RangeEnd   int
	PrevStart  int
	NextStart  int
}

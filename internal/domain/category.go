package domain

// EventCategory is the closed set of event categories.
type EventCategory string

const (
	CategoryConcert    EventCategory = "concert"
	CategoryConference EventCategory = "conference"
	CategorySports     EventCategory = "sports"
	CategoryTheater    EventCategory = "theater"
	CategoryFestival   EventCategory = "festival"
	CategoryWorkshop   EventCategory = "workshop"
	CategoryExhibition EventCategory = "exhibition"
	CategoryComedy     EventCategory = "comedy"
	CategoryNetworking EventCategory = "networking"
	CategoryOther      EventCategory = "other"
)

var categoryLabels = map[EventCategory]string{
	CategoryConcert:    "Concert",
	CategoryConference: "Conference",
	CategorySports:     "Sports",
	CategoryTheater:    "Theater",
	CategoryFestival:   "Festival",
	CategoryWorkshop:   "Workshop",
	CategoryExhibition: "Exhibition",
	CategoryComedy:     "Comedy",
	CategoryNetworking: "Networking",
	CategoryOther:      "Other",
}

// ParseCategory maps a stored value to a category, rejecting unknown values.
func ParseCategory(s string) (EventCategory, error) {
	c := EventCategory(s)
	if _, ok := categoryLabels[c]; !ok {
		return "", ErrInvalidCategory
	}
	return c, nil
}

func (c EventCategory) String() string {
	return string(c)
}

// Label returns the display name for the category.
func (c EventCategory) Label() string {
	return categoryLabels[c]
}

func (c EventCategory) valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Categories lists every supported category in a stable order.
func Categories() []EventCategory {
	return []EventCategory{
		CategoryConcert,
		CategoryConference,
		CategorySports,
		CategoryTheater,
		CategoryFestival,
		CategoryWorkshop,
		CategoryExhibition,
		CategoryComedy,
		CategoryNetworking,
		CategoryOther,
	}
}

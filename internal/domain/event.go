package domain

type ItemEventType string

const (
	ItemCreated ItemEventType = "created"
	ItemUpdated ItemEventType = "updated"
	ItemDeleted ItemEventType = "deleted"
)

type ItemEvent struct {
	Type ItemEventType `json:"type"`
	Item Item          `json:"item"`
}

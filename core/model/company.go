package model

import "time"

// CompanyType separates tenants by role in the port ecosystem.
type CompanyType int

const (
	CompanyLogistics CompanyType = iota
	CompanyShippingLine
	CompanyPortOperator
	CompanyAuthority
)

func (t CompanyType) String() string {
	switch t {
	case CompanyLogistics:
		return "LOGISTICS"
	case CompanyShippingLine:
		return "SHIPPING_LINE"
	case CompanyPortOperator:
		return "PORT_OPERATOR"
	case CompanyAuthority:
		return "AUTHORITY"
	default:
		return "unknown"
	}
}

type Company struct {
	ID   string
	Name string
	Type CompanyType
}

// User is the notification target. The engine notifies the first user of the
// owning company; richer routing is the transport layer's concern.
type User struct {
	ID        string
	CompanyID string
	Name      string
	Email     string
}

// NotificationLevel grades a notification for display purposes.
type NotificationLevel int

const (
	NotifyInfo NotificationLevel = iota
	NotifyWarning
	NotifyError
)

func (l NotificationLevel) String() string {
	switch l {
	case NotifyInfo:
		return "INFO"
	case NotifyWarning:
		return "WARNING"
	case NotifyError:
		return "ERROR"
	default:
		return "unknown"
	}
}

// Notification is a persisted per-user message, mirrored onto the event bus.
type Notification struct {
	ID        string
	UserID    string
	Title     string
	Message   string
	Level     NotificationLevel
	CreatedAt time.Time
}

// AuditRecord captures one ingestion or operator action.
type AuditRecord struct {
	ID         string
	ActorID    string
	Action     string
	EntityType string
	EntityID   string
	Details    map[string]any
	CreatedAt  time.Time
}

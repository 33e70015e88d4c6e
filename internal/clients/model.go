package clients

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// State is an Australian jurisdiction.
type State string

const (
	NSW State = "NSW"
	VIC State = "VIC"
	QLD State = "QLD"
	WA  State = "WA"
	SA  State = "SA"
	TAS State = "TAS"
	NT  State = "NT"
	ACT State = "ACT"
)

var stateLabels = map[State]string{
	NSW: "New South Wales",
	VIC: "Victoria",
	QLD: "Queensland",
	WA:  "Western Australia",
	SA:  "South Australia",
	TAS: "Tasmania",
	NT:  "Northern Territory",
	ACT: "Australian Capital Territory",
}

func (s State) Valid() bool {
	_, ok := stateLabels[s]
	return ok
}

// Label resolves the display name from the closed mapping; unknown values
// fall back to the raw code rather than failing.
func (s State) Label() string {
	if label, ok := stateLabels[s]; ok {
		return label
	}
	return string(s)
}

// ServiceList is the ordered list of services a client purchased. Requests
// may send it as an array or as a comma-separated string; either way it is
// normalized to trimmed non-empty entries.
type ServiceList []string

func (s *ServiceList) UnmarshalJSON(b []byte) error {
	var arr []string
	if err := json.Unmarshal(b, &arr); err == nil {
		*s = normalizeServices(arr)
		return nil
	}

	var joined string
	if err := json.Unmarshal(b, &joined); err == nil {
		*s = normalizeServices(strings.Split(joined, ","))
		return nil
	}

	return errors.New("servicesPurchased must be an array of strings or a comma-separated string")
}

func normalizeServices(in []string) ServiceList {
	out := make(ServiceList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Client is a customer record. It is owned independently of transactions: a
// transaction may snapshot the client's id and name, and deleting a client
// leaves those snapshots in place.
type Client struct {
	ID                string      `json:"id"`
	FirstName         string      `json:"firstName"`
	LastName          string      `json:"lastName"`
	Email             string      `json:"email"`
	PhoneNumber       string      `json:"phoneNumber"`
	Suburb            string      `json:"suburb"`
	PostCode          string      `json:"postCode"`
	State             State       `json:"state"`
	ServicesPurchased ServiceList `json:"servicesPurchased"`
	CreatedAt         time.Time   `json:"createdAt"`
	UpdatedAt         time.Time   `json:"updatedAt"`
	CreatedBy         string      `json:"createdBy"`
	CreatedByName     *string     `json:"createdByName,omitempty"`
	UpdatedBy         *string     `json:"updatedBy,omitempty"`
	UpdatedByName     *string     `json:"updatedByName,omitempty"`
}

// Filters narrows a client listing.
type Filters struct {
	State   State
	Service string
	Search  string
}

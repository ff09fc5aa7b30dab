package api

import "github.com/mulagohealth/mlaf/internal/store"

// The legacy mobile and web clients send inconsistent field names for the
// same data. Normalization happens here at the API boundary so the domain
// model stays strongly typed. Alias table (canonical <- accepted):
//
//	name            <- itemName
//	reporterName    <- yourName
//	reporterContact <- contact
//	fullName        <- name        (claims)
//
// The canonical name takes precedence when both are present.

type createItemRequest struct {
	Name            string `json:"name"`
	ItemName        string `json:"itemName"`
	Category        string `json:"category"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	ReporterName    string `json:"reporterName"`
	YourName        string `json:"yourName"`
	ReporterContact string `json:"reporterContact"`
	Contact         string `json:"contact"`
	Image           string `json:"image"`
}

// normalize resolves field aliases into a store.NewItem.
func (req createItemRequest) normalize() store.NewItem {
	return store.NewItem{
		Name:            firstNonEmpty(req.Name, req.ItemName),
		Category:        req.Category,
		Location:        req.Location,
		Description:     req.Description,
		ReporterName:    firstNonEmpty(req.ReporterName, req.YourName),
		ReporterContact: firstNonEmpty(req.ReporterContact, req.Contact),
		Image:           req.Image,
	}
}

type claimRequest struct {
	FullName string `json:"fullName"`
	Name     string `json:"name"`
	Contact  string `json:"contact"`
	Note     string `json:"note"`
}

// claimantName resolves the claim name aliases.
func (req claimRequest) claimantName() string {
	return firstNonEmpty(req.FullName, req.Name)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

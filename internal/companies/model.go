package companies

import "time"

// Company is a startup tracked by the deal team.
type Company struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Slug           string     `json:"slug,omitempty"`
	Description    string     `json:"description,omitempty"`
	Sector         string     `json:"sector,omitempty"`
	Stage          string     `json:"stage,omitempty"`
	FoundedDate    *time.Time `json:"foundedDate,omitempty"`
	EmployeesCount *int       `json:"employeesCount,omitempty"`
	Website        string     `json:"website,omitempty"`
	Location       string     `json:"location,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Founder belongs to exactly one company.
type Founder struct {
	ID        string `json:"id"`
	CompanyID string `json:"companyId"`
	Name      string `json:"name"`
	Role      string `json:"role,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
	Bio       string `json:"bio,omitempty"`
	IsCEO     bool   `json:"isCeo"`
}

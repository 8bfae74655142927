package companies

import (
	"fmt"
	"time"
)

type createCompanyRequest struct {
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	Description    string `json:"description"`
	Sector         string `json:"sector"`
	Stage          string `json:"stage"`
	FoundedDate    string `json:"foundedDate"`
	EmployeesCount *int   `json:"employeesCount"`
	Website        string `json:"website"`
	Location       string `json:"location"`
}

func (r createCompanyRequest) toCompany() (Company, error) {
	c := Company{
		Name:           r.Name,
		Slug:           r.Slug,
		Description:    r.Description,
		Sector:         r.Sector,
		Stage:          r.Stage,
		EmployeesCount: r.EmployeesCount,
		Website:        r.Website,
		Location:       r.Location,
	}
	if r.FoundedDate != "" {
		t, err := time.Parse(time.DateOnly, r.FoundedDate)
		if err != nil {
			return Company{}, fmt.Errorf("%w: foundedDate must be YYYY-MM-DD", ErrInvalidInput)
		}
		c.FoundedDate = &t
	}
	return c, nil
}

type createFounderRequest struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	LinkedIn string `json:"linkedin"`
	Bio      string `json:"bio"`
	IsCEO    bool   `json:"isCeo"`
}

func (r createFounderRequest) toFounder() Founder {
	return Founder{
		Name:     r.Name,
		Role:     r.Role,
		LinkedIn: r.LinkedIn,
		Bio:      r.Bio,
		IsCEO:    r.IsCEO,
	}
}

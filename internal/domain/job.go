package domain

// JobRecord is one posting as extracted from its detail page. Link is the
// identity; every other field is "" when the page does not carry it.
type JobRecord struct {
	Link    string `json:"link"`
	JobType string `json:"job_type"`

	Title       string `json:"title"`
	Company     string `json:"company"`
	Salary      string `json:"salary"`
	Location    string `json:"location"`
	Experience  string `json:"experience"`
	Level       string `json:"level"`
	WorkingForm string `json:"workingForm"`
	Deadline    string `json:"deadline"`
	Shift       string `json:"shift"`
	Degree      string `json:"degree"`
	Age         string `json:"age"`
	Quantity    string `json:"quantity"`
	Field       string `json:"field"`

	Description string `json:"description"`
	Requirement string `json:"requirement"`
	Benefit     string `json:"benefit"`

	CompanyLogo         string `json:"companyLogo"`
	CompanySize         string `json:"companySize"`
	CompanyHeadquarters string `json:"companyHeadquarters"`
	ContactName         string `json:"contactName"`
	ContactPhone        string `json:"contactPhone"`
}

// JobLink is a detail link found on a listing page of one job type.
type JobLink struct {
	Link    string
	JobType string
}

// DefaultJobTypes is crawled when the caller names none.
var DefaultJobTypes = []string{"1", "2"}

// FieldSetters maps extraction field names to the record field they fill.
// The names match the JSON keys.
var FieldSetters = map[string]func(*JobRecord, string){
	"title":               func(r *JobRecord, v string) { r.Title = v },
	"company":             func(r *JobRecord, v string) { r.Company = v },
	"salary":              func(r *JobRecord, v string) { r.Salary = v },
	"location":            func(r *JobRecord, v string) { r.Location = v },
	"experience":          func(r *JobRecord, v string) { r.Experience = v },
	"level":               func(r *JobRecord, v string) { r.Level = v },
	"workingForm":         func(r *JobRecord, v string) { r.WorkingForm = v },
	"deadline":            func(r *JobRecord, v string) { r.Deadline = v },
	"shift":               func(r *JobRecord, v string) { r.Shift = v },
	"degree":              func(r *JobRecord, v string) { r.Degree = v },
	"age":                 func(r *JobRecord, v string) { r.Age = v },
	"quantity":            func(r *JobRecord, v string) { r.Quantity = v },
	"field":               func(r *JobRecord, v string) { r.Field = v },
	"description":         func(r *JobRecord, v string) { r.Description = v },
	"requirement":         func(r *JobRecord, v string) { r.Requirement = v },
	"benefit":             func(r *JobRecord, v string) { r.Benefit = v },
	"companyLogo":         func(r *JobRecord, v string) { r.CompanyLogo = v },
	"companySize":         func(r *JobRecord, v string) { r.CompanySize = v },
	"companyHeadquarters": func(r *JobRecord, v string) { r.CompanyHeadquarters = v },
	"contactName":         func(r *JobRecord, v string) { r.ContactName = v },
	"contactPhone":        func(r *JobRecord, v string) { r.ContactPhone = v },
}

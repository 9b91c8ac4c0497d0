package handler

// --- Registration ---

type personalInfoRequest struct {
	FirstName string `json:"first_name" validate:"required,min=2"`
	LastName  string `json:"last_name"  validate:"required,min=2"`
	Email     string `json:"email"      validate:"required,email"`
	Phone     string `json:"phone"      validate:"required,min=10,number"`
}

type addressInfoRequest struct {
	Street  string `json:"street"   validate:"required,min=5"`
	City    string `json:"city"     validate:"required,min=2"`
	State   string `json:"state"    validate:"required,min=2"`
	ZipCode string `json:"zip_code" validate:"required,min=5,max=10"`
}

type preferencesRequest struct {
	Newsletter    bool   `json:"newsletter"`
	Notifications bool   `json:"notifications"`
	Theme         string `json:"theme" validate:"required,oneof=light dark auto"`
}

type reviewRequest struct {
	Terms   bool `json:"terms"   validate:"eq=true"`
	Privacy bool `json:"privacy" validate:"eq=true"`
}

// registrationRequest is the whole multi-step form submitted at once.
type registrationRequest struct {
	personalInfoRequest
	addressInfoRequest
	preferencesRequest
	reviewRequest
}

// --- Support ---

type technicalDetailsRequest struct {
	OperatingSystem string `json:"operating_system" validate:"required"`
	BrowserVersion  string `json:"browser_version"  validate:"required"`
	ErrorMessage    string `json:"error_message"`
}

type billingDetailsRequest struct {
	AccountNumber string  `json:"account_number" validate:"required"`
	BillingPeriod string  `json:"billing_period" validate:"required"`
	Amount        float64 `json:"amount"         validate:"gte=0"`
}

// supportRequest requires the detail block matching its issue type.
type supportRequest struct {
	IssueType   string                   `json:"issue_type"  validate:"required,oneof=technical billing general"`
	Priority    string                   `json:"priority"    validate:"required,oneof=low medium high"`
	Description string                   `json:"description" validate:"required,min=10"`
	Technical   *technicalDetailsRequest `json:"technical"   validate:"required_if=IssueType technical"`
	Billing     *billingDetailsRequest   `json:"billing"     validate:"required_if=IssueType billing"`
}

// --- Upload ---

type uploadRequest struct {
	Title       string `form:"title"       validate:"required"`
	Description string `form:"description" validate:"required,min=10"`
	Category    string `form:"category"    validate:"required,oneof=image document other"`
}

type uploadedFile struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type formResponse struct {
	Form     string         `json:"form"`
	Accepted bool           `json:"accepted"`
	Step     int            `json:"step,omitempty"`
	Files    []uploadedFile `json:"files,omitempty"`
}

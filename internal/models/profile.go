package models

// DetailItem is a single label/value pair on the user detail page.
type DetailItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DetailSection groups detail items under an optional title.
type DetailSection struct {
	Title    string       `json:"title,omitempty"`
	Items    []DetailItem `json:"items"`
	NoBorder bool         `json:"-"`
}

// Profile is the personal and financial block of the detail page.
//
// None of it comes from the upstream record: the upstream list carries no
// personal, financial or guarantor data, so PlaceholderProfile returns the
// same fixed content for every user.
type Profile struct {
	Placeholder bool            `json:"placeholder"`
	FullName    string          `json:"fullName"`
	AccountCode string          `json:"accountCode"`
	Tier        int             `json:"tier"`
	MaxTier     int             `json:"maxTier"`
	Balance     string          `json:"balance"`
	BankAccount string          `json:"bankAccount"`
	Tabs        []string        `json:"tabs"`
	Sections    []DetailSection `json:"sections"`
}

// TierStars returns one entry per star; true marks a filled star.
func (p Profile) TierStars() []bool {
	stars := make([]bool, p.MaxTier)
	for i := 0; i < p.Tier && i < p.MaxTier; i++ {
		stars[i] = true
	}
	return stars
}

// PlaceholderProfile returns the fixed detail content.
func PlaceholderProfile() Profile {
	guarantor := []DetailItem{
		{Label: "FULL NAME", Value: "Debby Ogana"},
		{Label: "PHONE NUMBER", Value: "07060780922"},
		{Label: "EMAIL ADDRESS", Value: "debby@gmail.com"},
		{Label: "RELATIONSHIP", Value: "Sister"},
	}
	return Profile{
		Placeholder: true,
		FullName:    "Grace Effiom",
		AccountCode: "LSQFf587g90",
		Tier:        1,
		MaxTier:     3,
		Balance:     "₦200,000.00",
		BankAccount: "9912345678 / Providus Bank",
		Tabs:        []string{"General Details", "Documents", "Bank Details", "Loans", "Savings", "App and System"},
		Sections: []DetailSection{
			{
				Title: "Personal Information",
				Items: []DetailItem{
					{Label: "FULL NAME", Value: "Grace Effiom"},
					{Label: "PHONE NUMBER", Value: "07060780922"},
					{Label: "EMAIL ADDRESS", Value: "grace@gmail.com"},
					{Label: "BVN", Value: "07060780922"},
					{Label: "GENDER", Value: "Female"},
					{Label: "MARITAL STATUS", Value: "Single"},
					{Label: "CHILDREN", Value: "None"},
					{Label: "TYPE OF RESIDENCE", Value: "Parent's Apartment"},
				},
			},
			{
				Title: "Education and Employment",
				Items: []DetailItem{
					{Label: "LEVEL OF EDUCATION", Value: "B.Sc"},
					{Label: "EMPLOYMENT STATUS", Value: "Employed"},
					{Label: "SECTOR OF EMPLOYMENT", Value: "FinTech"},
					{Label: "DURATION OF EMPLOYMENT", Value: "2 years"},
					{Label: "OFFICE EMAIL", Value: "grace@lendsqr.com"},
					{Label: "MONTHLY INCOME", Value: "₦200,000.00 - ₦400,000.00"},
					{Label: "LOAN REPAYMENT", Value: "₦40,000.00"},
				},
			},
			{
				Title: "Socials",
				Items: []DetailItem{
					{Label: "TWITTER", Value: "@grace_effiom"},
					{Label: "FACEBOOK", Value: "Grace Effiom"},
					{Label: "INSTAGRAM", Value: "@grace_effiom"},
				},
			},
			{Title: "Guarantor", Items: guarantor},
			{Items: append([]DetailItem(nil), guarantor...), NoBorder: true},
		},
	}
}

// Package knowledge holds the fixed Bea-Tech IT content catalogs and
// assembles the system prompt for the completion service.
package knowledge

// Service describes one service line offered by the company.
type Service struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Testimonial is one customer quote shown on the site and fed to the
// assistant for context.
type Testimonial struct {
	Quote string `json:"quote"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

// BusinessHours is one opening-hours row.
type BusinessHours struct {
	Day  string `json:"day"`
	Time string `json:"time"`
}

// ContactDetails bundles the company's contact information.
type ContactDetails struct {
	Address      string          `json:"address"`
	Phone        string          `json:"phone"`
	Email        string          `json:"email"`
	Website      string          `json:"website"`
	Hours        []BusinessHours `json:"hours"`
	Rating       string          `json:"rating"`
	ReviewsCount int             `json:"reviews_count"`
	PlusCode     string          `json:"plus_code"`
	Attributes   []string        `json:"attributes"`
}

// Services lists the company's service offerings.
func Services() []Service {
	return []Service{
		{
			Name:        "Hardware & Software",
			Description: "We supply you with the latest hardware and software, from high-performance components to essential business applications.",
		},
		{
			Name:        "Expert Computer Repairs",
			Description: "Our skilled tech team can diagnose and fix any issue, getting your PC back to peak performance quickly and reliably.",
		},
		{
			Name:        "Network Solutions",
			Description: "From home WiFi setups to business network infrastructure and accessories, we ensure you stay connected.",
		},
		{
			Name:        "CCTV Security Systems",
			Description: "Protect your property with our professional CCTV systems, featuring reliable power supply units for ultimate confidence.",
		},
	}
}

// Products lists the product categories stocked in store.
func Products() []string {
	return []string{
		"Pre-Built Desktops",
		"Upgrade Kits",
		"Desktop Components",
		"Laptops",
		"Software",
		"Peripherals",
		"Cables and Adapters",
		"And Much More...",
	}
}

// Testimonials lists the customer quotes shown on the site.
func Testimonials() []Testimonial {
	return []Testimonial{
		{
			Quote: "Bea-Tech provided an incredibly fast and professional repair service for my work computer. They explained the issue clearly and had it running better than before. Highly recommended!",
			Name:  "John D.",
			Title: "Local Business Owner",
		},
		{
			Quote: "I bought a custom gaming PC from them and the performance is insane. The team was super helpful in picking the right components for my budget. A fantastic experience from start to finish.",
			Name:  "Sarah L.",
			Title: "Gaming Enthusiast",
		},
		{
			Quote: "The networking support we received was top-notch. They sorted out our office's connectivity issues and provided great accessories. Very knowledgeable and friendly staff.",
			Name:  "Mike P.",
			Title: "Office Manager",
		},
	}
}

// Contact returns the company contact details.
func Contact() ContactDetails {
	return ContactDetails{
		Address: "36 Schumann St, Vanderbijlpark S. W. 5, Vanderbijlpark, 1911",
		Phone:   "016 023 0298",
		Email:   "Bianca@bea-tech.co.za",
		Website: "www.bea-tech.co.za",
		Hours: []BusinessHours{
			{Day: "Monday - Friday", Time: "08:00 - 17:00"},
			{Day: "Saturday", Time: "09:00 - 13:00"},
			{Day: "Sunday & Public Holidays", Time: "Closed"},
		},
		Rating:       "5.0",
		ReviewsCount: 5,
		PlusCode:     "7RGH+MF Vanderbijlpark",
		Attributes:   []string{"Identifies as women-owned", "In-store shopping"},
	}
}

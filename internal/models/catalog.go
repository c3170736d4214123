package models

import "github.com/shopspring/decimal"

func metric(amount int64, impact string) ImpactMetric {
	return ImpactMetric{Amount: decimal.NewFromInt(amount), Impact: impact}
}

// SampleCharities is the starter catalog written by `jariyahctl seed`.
func SampleCharities() []Charity {
	return []Charity{
		{
			ID:          "1",
			Name:        "Global Education Fund",
			Description: "Providing education access to underprivileged children worldwide",
			Category:    "Education",
			ImageURL:    "https://images.unsplash.com/photo-1501504905252-473c47e087f8",
			Impact: ImpactSchedule{
				Description: "Your donation helps provide education supplies and resources",
				Metrics: []ImpactMetric{
					metric(10, "1 month of school supplies"),
					metric(50, "1 semester of textbooks"),
					metric(200, "1 year of education for a child"),
				},
			},
			TotalRaised: decimal.NewFromInt(150000),
			Goal:        decimal.NewFromInt(500000),
			Tags:        []string{"education", "children", "global", "literacy"},
			Causes:      []string{"education", "youth development", "poverty alleviation"},
		},
		{
			ID:          "2",
			Name:        "Clean Water Initiative",
			Description: "Bringing clean water to communities in need",
			Category:    "Health",
			ImageURL:    "https://images.unsplash.com/photo-1637034318492-c5d36e4f6d99",
			Impact: ImpactSchedule{
				Description: "Help provide clean water access to communities",
				Metrics: []ImpactMetric{
					metric(20, "Clean water for 1 person for a month"),
					metric(100, "Water filter for a family"),
					metric(1000, "Community well construction"),
				},
			},
			TotalRaised: decimal.NewFromInt(75000),
			Goal:        decimal.NewFromInt(200000),
			Tags:        []string{"water", "health", "sanitation", "community"},
			Causes:      []string{"health", "infrastructure", "sustainable development"},
		},
		{
			ID:          "3",
			Name:        "Tech Empowerment",
			Description: "Empowering underrepresented groups in technology",
			Category:    "Technology",
			ImageURL:    "https://images.unsplash.com/photo-1573497620053-ea5300f94f21",
			Impact: ImpactSchedule{
				Description: "Support technology education and career development",
				Metrics: []ImpactMetric{
					metric(25, "1 coding workshop session"),
					metric(150, "Laptop for a student"),
					metric(500, "Complete coding bootcamp"),
				},
			},
			TotalRaised: decimal.NewFromInt(250000),
			Goal:        decimal.NewFromInt(750000),
			Tags:        []string{"technology", "education", "diversity", "career"},
			Causes:      []string{"education", "technology", "social justice"},
		},
	}
}

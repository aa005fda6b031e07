package models

// Plan represents a purchasable data bundle
type Plan struct {
	Name  string `bson:"name" json:"name"`
	Price int    `bson:"price" json:"price"` // Ksh
}

// DefaultPlans returns the data bundle catalog offered at checkout
func DefaultPlans() []Plan {
	return []Plan{
		{Name: "Daily 1GB", Price: 20},
		{Name: "Daily 2GB", Price: 35},
		{Name: "Weekly 3GB", Price: 99},
		{Name: "Weekly 7GB", Price: 199},
		{Name: "Monthly 15GB", Price: 499},
		{Name: "Monthly 30GB", Price: 999},
	}
}

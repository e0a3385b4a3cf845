package valuegen

var (
	firstNames = []string{
		"James", "Mary", "Robert", "Patricia", "John", "Jennifer", "Michael", "Linda",
		"David", "Elizabeth", "William", "Barbara", "Richard", "Susan", "Joseph", "Jessica",
		"Thomas", "Sarah", "Charles", "Karen", "Aroha", "Mateo", "Priya", "Kenji",
		"Amara", "Lars", "Sofia", "Tariq", "Ingrid", "Nia",
	}

	lastNames = []string{
		"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis",
		"Rodriguez", "Martinez", "Hernandez", "Lopez", "Wilson", "Anderson", "Taylor", "Thomas",
		"Moore", "Jackson", "Martin", "Lee", "Nakamura", "Okafor", "Patel", "Larsen",
		"Kowalski", "Novak", "Haddad", "Walker", "Young", "King",
	}

	streetNames = []string{
		"Main", "Oak", "Pine", "Maple", "Cedar", "Elm", "Washington", "Lake",
		"Hill", "Park", "Sunset", "River", "Church", "Mill", "Highland", "Meadow",
	}

	streetSuffixes = []string{"St", "Ave", "Rd", "Blvd", "Ln", "Dr", "Ct", "Way"}

	cities = []string{
		"Springfield", "Riverside", "Franklin", "Greenville", "Bristol", "Clinton",
		"Fairview", "Salem", "Madison", "Georgetown", "Arlington", "Ashland",
		"Burlington", "Manchester", "Oxford", "Dover",
	}

	states = []string{
		"AL", "AK", "AZ", "CA", "CO", "CT", "FL", "GA", "IL", "MA",
		"MI", "MN", "NC", "NY", "OH", "OR", "PA", "TX", "VA", "WA",
	}

	countries = []string{
		"United States", "Canada", "United Kingdom", "Germany", "France", "Japan",
		"Australia", "New Zealand", "Brazil", "India", "Mexico", "Spain",
	}

	companySuffixes = []string{"Inc", "LLC", "Group", "Ltd", "Partners", "Holdings", "Co"}

	productAdjectives = []string{
		"Ergonomic", "Rustic", "Sleek", "Smart", "Compact", "Durable", "Premium",
		"Wireless", "Portable", "Classic", "Modern", "Handcrafted",
	}

	productNouns = []string{
		"Chair", "Keyboard", "Lamp", "Backpack", "Speaker", "Bottle", "Desk",
		"Headphones", "Watch", "Blender", "Jacket", "Monitor",
	}

	emailDomains = []string{"example.com", "example.org", "mail.test", "inbox.test", "corp.example"}

	loremWords = []string{
		"lorem", "ipsum", "dolor", "sit", "amet", "consectetur", "adipiscing", "elit",
		"sed", "do", "eiusmod", "tempor", "incididunt", "ut", "labore", "et",
		"dolore", "magna", "aliqua", "enim", "ad", "minim", "veniam", "quis",
	}
)

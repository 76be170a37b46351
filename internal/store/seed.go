package store

import (
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/techhorizon/blog/internal/model"
)

// Seed credentials for the compiled-in admin account. The password is hashed
// with bcrypt at seed time — the plaintext exists only here and in the
// operator's head, never in a snapshot.
const (
	seedAdminEmail    = "admin@techhorizon.com"
	seedAdminPassword = "admin123"
)

// seedUsers builds the default user set: one admin account.
func seedUsers(logger *slog.Logger) []model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(seedAdminPassword), bcrypt.DefaultCost)
	if err != nil {
		// bcrypt only fails on absurd cost values or oversized passwords;
		// neither applies to the compiled-in constant. Log and seed a user
		// that can't log in rather than crash.
		logger.Error("seeding admin user failed", slog.String("error", err.Error()))
		hash = nil
	}
	return []model.User{
		{
			ID:           "1",
			Email:        seedAdminEmail,
			PasswordHash: string(hash),
			DisplayName:  "Admin User",
			IsAdmin:      true,
		},
	}
}

// seedArticles builds the default article set: four sample articles, one per
// category, three of them featured. Used whenever no valid snapshot exists.
func seedArticles() []model.Article {
	return []model.Article{
		{
			ID:      "1",
			Title:   "AI-Powered Diagnostics: The Future of Healthcare",
			Slug:    "ai-powered-diagnostics-future-healthcare",
			Summary: "How artificial intelligence is revolutionizing disease diagnosis and patient care",
			Content: `
# AI-Powered Diagnostics: The Future of Healthcare

Artificial intelligence is transforming the healthcare industry by enabling faster, more accurate diagnoses and personalized treatment plans. Machine learning algorithms can analyze medical images, patient data, and research papers to identify patterns that might escape human detection.

## Key Applications in Diagnostics

- **Medical Imaging Analysis**: AI systems can detect anomalies in X-rays, MRIs, and CT scans with remarkable precision.
- **Predictive Analytics**: Machine learning models can forecast patient risks and suggest preventive measures.
- **Personalized Medicine**: AI helps tailor treatments to individual patients based on their genetic makeup and medical history.

## Real-World Success Stories

Several hospitals have already implemented AI diagnostic tools with promising results. For example, Stanford's AI system for skin cancer detection achieved accuracy comparable to dermatologists, while being much faster.

## Challenges and Future Directions

Despite its potential, AI in healthcare faces regulatory hurdles, data privacy concerns, and the need for clinical validation. However, as these challenges are addressed, we can expect AI to become an indispensable tool in healthcare, augmenting rather than replacing medical professionals.
`,
			Category:      model.CategoryHealthcare,
			Author:        "Dr. Sarah Johnson",
			PublishedDate: "2023-09-15",
			ImageURL:      "/placeholder.svg",
			Featured:      true,
		},
		{
			ID:      "2",
			Title:   "Blockchain Revolution in Supply Chain Management",
			Slug:    "blockchain-revolution-supply-chain-management",
			Summary: "How distributed ledger technology is creating transparent, efficient supply chains",
			Content: `
# Blockchain Revolution in Supply Chain Management

Blockchain technology is revolutionizing supply chain management by creating immutable records of transactions across the entire supply network. This transparency helps reduce fraud, improve traceability, and increase efficiency.

## Key Benefits for Supply Chains

- **End-to-End Visibility**: Track products from raw materials to consumers with complete transparency.
- **Smart Contracts**: Automate payments and processes when predefined conditions are met.
- **Reduced Counterfeiting**: Verify product authenticity through tamper-proof records.

## Industry Applications

Major retailers and manufacturers are already implementing blockchain solutions. Walmart, for instance, uses blockchain to track produce from farm to store, reducing the time to trace food origins from days to seconds.

## Implementation Challenges

While promising, blockchain adoption faces challenges including scalability issues, regulatory uncertainty, and the need for industry-wide standards. However, as these hurdles are overcome, blockchain is poised to become a fundamental technology in modern supply chain management.
`,
			Category:      model.CategorySupplyChain,
			Author:        "Marcus Chen",
			PublishedDate: "2023-10-02",
			ImageURL:      "/placeholder.svg",
			Featured:      true,
		},
		{
			ID:      "3",
			Title:   "The Rise of Algorithmic Trading in Financial Markets",
			Slug:    "rise-algorithmic-trading-financial-markets",
			Summary: "Exploring how AI and machine learning are transforming modern trading strategies",
			Content: `
# The Rise of Algorithmic Trading in Financial Markets

Algorithmic trading now accounts for over 70% of trading volume in major financial markets, fundamentally changing how assets are bought and sold. Machine learning algorithms can analyze vast amounts of market data to identify trading opportunities within milliseconds.

## Evolution of Trading Algorithms

- **High-Frequency Trading**: Executes thousands of orders per second based on market conditions.
- **Sentiment Analysis**: Algorithms that analyze news and social media to predict market movements.
- **Deep Learning Models**: Neural networks that identify complex patterns in market behavior.

## Impact on Market Dynamics

Algorithmic trading has increased market liquidity and narrowed bid-ask spreads, but has also raised concerns about flash crashes and market manipulation. Regulators worldwide are developing frameworks to ensure algorithmic trading contributes to market stability.

## Future Trends

The next generation of trading algorithms will likely incorporate quantum computing capabilities and more sophisticated AI models, potentially further transforming how financial markets operate.
`,
			Category:      model.CategoryFinance,
			Author:        "Jennifer Wong, CFA",
			PublishedDate: "2023-09-28",
			ImageURL:      "/placeholder.svg",
			Featured:      false,
		},
		{
			ID:      "4",
			Title:   "Smart Cities and Real Estate: Technology Reshaping Urban Living",
			Slug:    "smart-cities-real-estate-technology-reshaping-urban-living",
			Summary: "How IoT, AI, and data analytics are creating the intelligent urban environments of tomorrow",
			Content: `
# Smart Cities and Real Estate: Technology Reshaping Urban Living

Smart city technologies are transforming real estate by creating more efficient, sustainable, and livable urban environments. From intelligent building systems to citywide IoT networks, technology is reshaping how we interact with our built environment.

## Key Smart City Technologies

- **IoT-Enabled Infrastructure**: Connected sensors monitoring everything from traffic flow to air quality.
- **Smart Buildings**: Automated systems that optimize energy usage, security, and comfort.
- **Digital Twins**: Virtual replicas of physical assets that enable simulation and optimization.

## Impact on Real Estate Markets

Properties in smart city zones often command premium prices due to improved infrastructure, sustainability, and quality of life. Developers increasingly incorporate smart technologies as standard features rather than luxury add-ons.

## Challenges and Opportunities

While smart city implementation faces challenges including privacy concerns and high initial costs, the long-term benefits in resource efficiency and improved urban living make this a critical area for real estate innovation.
`,
			Category:      model.CategoryRealEstate,
			Author:        "Robert Park",
			PublishedDate: "2023-10-05",
			ImageURL:      "/placeholder.svg",
			Featured:      true,
		},
	}
}

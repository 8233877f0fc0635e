package domain

import "strings"

// OrgKind distinguishes the two halves of the taxonomy.
type OrgKind string

const (
	OrgKindClub OrgKind = "club"
	OrgKindFest OrgKind = "fest"
)

// Organization is one immutable entry of the IITJ club/fest taxonomy.
// The table is loaded as package data at startup and never mutated.
type Organization struct {
	Code            string
	FullName        string
	Kind            OrgKind
	Category        string // technical, cultural, sports, arts, science, social
	Keywords        []string
	SubjectHints    []string // words that typically appear in this org's email subjects
	DefaultPriority Priority // empty means "low" when the interpreter leaves it out
}

// Sentinel categories a classification may carry instead of an organization code.
const (
	CategoryAcademic      = "ACADEMIC"
	CategoryInformalFood  = "INFORMAL_FOOD"
	CategoryInformalDeals = "INFORMAL_DEALS"
	CategorySpam          = "SPAM"
	CategoryOther         = "OTHER"
)

// Fests lists the IITJ fests.
var Fests = []Organization{
	{
		Code: "IGNUS", FullName: "Ignus — Annual Socio-Cultural Fest", Kind: OrgKindFest, Category: "cultural",
		Keywords:     []string{"ignus", "cultural", "dance", "music", "drama", "art", "nukkad", "stage show", "band", "socio-cultural"},
		SubjectHints: []string{"registration", "audition", "performance", "event", "pronite"},
	},
	{
		Code: "PROMETEO", FullName: "Prometeo — National Technical + Entrepreneurial Fest", Kind: OrgKindFest, Category: "technical",
		Keywords:     []string{"prometeo", "tech fest", "technical", "entrepreneurial", "startup", "innovation", "workshop", "competition"},
		SubjectHints: []string{"registration", "workshop", "talk", "competition", "prize"},
	},
	{
		Code: "VARCHAS", FullName: "Varchas — Annual Sports Fest", Kind: OrgKindFest, Category: "sports",
		Keywords:     []string{"varchas", "sports", "football", "cricket", "basketball", "badminton", "athletics", "tennis", "volleyball"},
		SubjectHints: []string{"registration", "team", "match", "event", "sports"},
	},
	{
		Code: "NIMBLE", FullName: "Nimble — Intra-College Science & Technology Fest", Kind: OrgKindFest, Category: "technical",
		Keywords:     []string{"nimble", "robotics", "electronics", "programming", "science", "technology", "quiz", "intra"},
		SubjectHints: []string{"event", "registration", "competition", "robotics"},
	},
	{
		Code: "SPANDAN", FullName: "Spandan — Intra-College Cultural Fest", Kind: OrgKindFest, Category: "cultural",
		Keywords:     []string{"spandan", "intra", "cultural", "performance"},
		SubjectHints: []string{"event", "performance", "participate"},
	},
	{
		Code: "FRAMED", FullName: "Framed — Design & Arts Flagship Event", Kind: OrgKindFest, Category: "arts",
		Keywords:     []string{"framed", "design", "art", "artwork", "gallery", "canvas", "illustration", "creative"},
		SubjectHints: []string{"submission", "exhibition", "gallery", "event"},
	},
	{
		Code: "VIRASAAT", FullName: "Virasaat — SPICMACAY Festival", Kind: OrgKindFest, Category: "cultural",
		Keywords:     []string{"virasaat", "spicmacay", "classical", "heritage", "traditional", "music", "culture"},
		SubjectHints: []string{"performance", "event", "classical"},
	},
	{
		Code: "TECH_EXPO", FullName: "Tech Expo — Student Project Exhibition", Kind: OrgKindFest, Category: "technical",
		Keywords:     []string{"tech expo", "project exhibition", "showcase", "demo", "project", "exhibit"},
		SubjectHints: []string{"submission", "registration", "demo", "project"},
	},
}

// Clubs lists the IITJ clubs and societies. Individual sports societies are
// opt-in only: they default to "ignore" until the user names them.
var Clubs = []Organization{
	{
		Code: "RAID", FullName: "RAID — Realm of Artificial Intelligence and Data", Kind: OrgKindClub, Category: "technical",
		Keywords:     []string{"RAID", "AI", "artificial intelligence", "machine learning", "data science", "deep learning", "ML", "neural networks", "data", "LLM", "NLP", "computer vision"},
		SubjectHints: []string{"webinar", "coding competition", "workshop", "talk", "session", "project"},
	},
	{
		Code: "ROBOTICS_CLUB", FullName: "Robotics Club IITJ", Kind: OrgKindClub, Category: "technical",
		Keywords:     []string{"robotics club", "robotics", "embedded systems", "arduino", "raspberry pi", "circuits", "automation", "hardware", "bot"},
		SubjectHints: []string{"workshop", "competition", "tutorial", "project", "build"},
	},
	{
		Code: "DSC", FullName: "Developer Student Club (Google DSC)", Kind: OrgKindClub, Category: "technical",
		Keywords:     []string{"DSC", "GDSC", "google", "android", "web development", "flutter", "firebase", "cloud", "developer"},
		SubjectHints: []string{"solution challenge", "devfest", "study jam", "workshop"},
	},
	{
		Code: "BOLTHEADS", FullName: "Boltheads — Automotive & Aerodynamics Club (SAE India)", Kind: OrgKindClub, Category: "technical",
		Keywords:     []string{"boltheads", "SAE", "automotive", "aerodynamics", "vehicle", "mechanical", "fabricate", "design", "formula", "car", "go-kart"},
		SubjectHints: []string{"event", "competition", "design", "fabrication", "workshop"},
	},
	{
		Code: "ROTARACT", FullName: "Rotaract Club IITJ", Kind: OrgKindClub, Category: "social",
		Keywords:     []string{"rotaract", "social", "volunteer", "community", "service", "ngo", "help", "drive"},
		SubjectHints: []string{"drive", "event", "volunteer", "activity", "meeting"},
	},
	{
		Code: "NEXUS", FullName: "Nexus — Astronomy Club", Kind: OrgKindClub, Category: "science",
		Keywords:     []string{"nexus", "astronomy", "stars", "telescope", "space", "cosmos", "stargazing", "astrophysics"},
		SubjectHints: []string{"stargazing", "observation", "workshop", "session"},
	},
	{
		Code: "GROOVE_THEORY", FullName: "Groove Theory — Dance Club", Kind: OrgKindClub, Category: "cultural",
		Keywords:     []string{"groove theory", "dance", "hip hop", "freestyle", "contemporary", "choreography", "perform"},
		SubjectHints: []string{"audition", "rehearsal", "performance", "workshop"},
	},
	{
		Code: "DRAMATICS", FullName: "Dramatics Club IITJ", Kind: OrgKindClub, Category: "cultural",
		Keywords:     []string{"dramatics", "drama", "nukkad natak", "street play", "mono acting", "mime", "skit", "theatre", "acting", "play"},
		SubjectHints: []string{"audition", "rehearsal", "performance", "competition"},
	},
	{
		Code: "SHUTTERBUGS", FullName: "Shutterbugs — Photography Club", Kind: OrgKindClub, Category: "arts",
		Keywords:     []string{"shutterbugs", "photography", "camera", "photo", "shoot", "click", "portrait", "landscape"},
		SubjectHints: []string{"photowalks", "workshop", "competition", "exhibition"},
	},
	{
		Code: "ATELIERS", FullName: "Ateliers — Art & Craft Club", Kind: OrgKindClub, Category: "arts",
		Keywords:     []string{"ateliers", "art", "craft", "painting", "sketch", "illustration", "creative", "drawing"},
		SubjectHints: []string{"workshop", "exhibition", "session", "submission"},
	},
	{
		Code: "SANGAM", FullName: "Sangam — Music Society IITJ", Kind: OrgKindClub, Category: "cultural",
		Keywords:     []string{"sangam", "music", "singing", "guitar", "drums", "vocals", "band", "western music", "classical music", "instruments", "jam", "concert", "acoustic"},
		SubjectHints: []string{"audition", "jam session", "concert", "practice", "performance"},
	},
	{
		Code: "CHESS_SOCIETY", FullName: "Chess Society IITJ", Kind: OrgKindClub, Category: "sports",
		Keywords:     []string{"chess society", "chess", "board games", "tournament", "checkmate", "blitz", "rapid chess"},
		SubjectHints: []string{"tournament", "session", "competition", "event"},
	},
	{
		Code: "QUANT_CLUB", FullName: "Quant Club IITJ", Kind: OrgKindClub, Category: "technical",
		Keywords:     []string{"quant", "quant club", "quantitative", "finance", "trading", "stocks", "mathematics", "statistics", "probability", "financial modelling", "algo trading"},
		SubjectHints: []string{"workshop", "talk", "competition", "session", "event"},
	},
	{
		Code: "SPORTS_COUNCIL", FullName: "Sports Council IITJ", Kind: OrgKindClub, Category: "sports",
		Keywords:     []string{"sports council", "sports", "athletics", "varchas", "inter iit", "sports meet", "sports day", "gym"},
		SubjectHints: []string{"registration", "team", "tryout", "match", "event", "sports"},
	},
	{
		Code: "FOOTBALL_SOCIETY", FullName: "Football Society IITJ", Kind: OrgKindClub, Category: "sports", DefaultPriority: PriorityIgnore,
		Keywords:     []string{"football", "soccer", "football society", "futsal"},
		SubjectHints: []string{"match", "tryout", "practice", "tournament"},
	},
	{
		Code: "CRICKET_SOCIETY", FullName: "Cricket Society IITJ", Kind: OrgKindClub, Category: "sports", DefaultPriority: PriorityIgnore,
		Keywords:     []string{"cricket", "cricket society", "net practice", "batting", "bowling"},
		SubjectHints: []string{"match", "tryout", "practice", "tournament"},
	},
	{
		Code: "BASKETBALL_SOCIETY", FullName: "Basketball Society IITJ", Kind: OrgKindClub, Category: "sports", DefaultPriority: PriorityIgnore,
		Keywords:     []string{"basketball", "basketball society", "hoops"},
		SubjectHints: []string{"match", "tryout", "practice", "tournament"},
	},
	{
		Code: "TABLE_TENNIS_SOCIETY", FullName: "Table Tennis Society IITJ", Kind: OrgKindClub, Category: "sports", DefaultPriority: PriorityIgnore,
		Keywords:     []string{"table tennis", "TT", "ping pong", "table tennis society"},
		SubjectHints: []string{"match", "tryout", "practice", "tournament"},
	},
	{
		Code: "BADMINTON_SOCIETY", FullName: "Badminton Society IITJ", Kind: OrgKindClub, Category: "sports", DefaultPriority: PriorityIgnore,
		Keywords:     []string{"badminton", "badminton society", "shuttlecock"},
		SubjectHints: []string{"match", "tryout", "practice", "tournament"},
	},
}

// AcademicTerms maps IITJ academic shorthand to a short gloss used in prompts.
var AcademicTerms = map[string]string{
	"MST":        "Mid Semester Test — important exam",
	"EST":        "End Semester Test — most important exam",
	"CIA":        "Continuous Internal Assessment",
	"CPI":        "Cumulative Performance Index (GPA equivalent)",
	"HOD":        "Head of Department — always high priority",
	"viva":       "Oral exam — high priority",
	"lab record": "Lab submission — deadline sensitive",
	"backlog":    "Failed subject to be cleared",
	"TA":         "Teaching Assistant",
	"SWC":        "Student Wellbeing Committee",
	"gymkhana":   "Student body governing all clubs and fests",
	"SAC":        "Student Activity Centre",
}

// TrustedSenders is the allow-list of official addresses whose mail must never
// be downgraded by classification.
var TrustedSenders = []string{
	"@iitj.ac.in",
	"exam@iitj.ac.in",
	"fees@iitj.ac.in",
	"hostel@iitj.ac.in",
	"placement@iitj.ac.in",
	"swc@iitj.ac.in",
}

// InterestMap maps interest phrases to organization codes. It is surfaced to
// the preference interpreter prompt so that "I like AI" lands on RAID.
var InterestMap = map[string][]string{
	"AI":                      {"RAID", "PROMETEO"},
	"artificial intelligence": {"RAID"},
	"machine learning":        {"RAID"},
	"data science":            {"RAID"},
	"deep learning":           {"RAID"},
	"coding":                  {"RAID", "DSC"},
	"competitive programming": {"RAID", "DSC"},
	"web development":         {"DSC"},
	"google":                  {"DSC"},
	"android":                 {"DSC"},
	"robotics":                {"ROBOTICS_CLUB", "NIMBLE"},
	"embedded":                {"ROBOTICS_CLUB"},
	"hardware":                {"ROBOTICS_CLUB", "BOLTHEADS"},
	"cars":                    {"BOLTHEADS"},
	"automotive":              {"BOLTHEADS"},
	"mechanical":              {"BOLTHEADS"},
	"dance":                   {"GROOVE_THEORY", "IGNUS"},
	"drama":                   {"DRAMATICS", "IGNUS"},
	"theatre":                 {"DRAMATICS"},
	"acting":                  {"DRAMATICS"},
	"photography":             {"SHUTTERBUGS", "FRAMED"},
	"art":                     {"ATELIERS", "FRAMED"},
	"craft":                   {"ATELIERS"},
	"astronomy":               {"NEXUS"},
	"space":                   {"NEXUS"},
	"stars":                   {"NEXUS"},
	"social work":             {"ROTARACT"},
	"volunteer":               {"ROTARACT"},
	"sports":                  {"SPORTS_COUNCIL", "VARCHAS"},
	"football":                {"FOOTBALL_SOCIETY"},
	"cricket":                 {"CRICKET_SOCIETY"},
	"basketball":              {"BASKETBALL_SOCIETY"},
	"table tennis":            {"TABLE_TENNIS_SOCIETY"},
	"badminton":               {"BADMINTON_SOCIETY"},
	"cultural":                {"IGNUS", "SPANDAN"},
	"technical":               {"PROMETEO", "NIMBLE"},
	"music":                   {"SANGAM", "IGNUS", "VIRASAAT"},
	"singing":                 {"SANGAM"},
	"guitar":                  {"SANGAM"},
	"band":                    {"SANGAM"},
	"classical music":         {"VIRASAAT"},
	"chess":                   {"CHESS_SOCIETY"},
	"board games":             {"CHESS_SOCIETY"},
	"quant":                   {"QUANT_CLUB"},
	"finance":                 {"QUANT_CLUB"},
	"trading":                 {"QUANT_CLUB"},
	"statistics":              {"QUANT_CLUB"},
	"design":                  {"FRAMED", "ATELIERS"},
	"startup":                 {"PROMETEO"},
	"entrepreneurship":        {"PROMETEO"},
}

var (
	orgByCode      map[string]*Organization
	orgCodes       []string
	sentinelByName map[string]struct{}
)

func init() {
	orgByCode = make(map[string]*Organization, len(Clubs)+len(Fests))
	for i := range Clubs {
		orgByCode[Clubs[i].Code] = &Clubs[i]
		orgCodes = append(orgCodes, Clubs[i].Code)
	}
	for i := range Fests {
		orgByCode[Fests[i].Code] = &Fests[i]
		orgCodes = append(orgCodes, Fests[i].Code)
	}
	sentinelByName = map[string]struct{}{
		CategoryAcademic:      {},
		CategoryInformalFood:  {},
		CategoryInformalDeals: {},
		CategorySpam:          {},
		CategoryOther:         {},
	}
}

// OrganizationCodes returns every taxonomy code, clubs first.
func OrganizationCodes() []string {
	codes := make([]string, len(orgCodes))
	copy(codes, orgCodes)
	return codes
}

// OrganizationByCode looks up a taxonomy entry. Returns nil for sentinels and
// unknown codes.
func OrganizationByCode(code string) *Organization {
	return orgByCode[code]
}

// ValidCategory reports whether a classifier-returned category is either a
// taxonomy code or one of the sentinel categories.
func ValidCategory(category string) bool {
	if _, ok := sentinelByName[category]; ok {
		return true
	}
	_, ok := orgByCode[category]
	return ok
}

// IsTrustedSender reports whether the sender address matches the trusted
// allow-list. Matching is substring-based so "@iitj.ac.in" covers the whole
// institute domain.
func IsTrustedSender(sender string) bool {
	s := strings.ToLower(sender)
	for _, t := range TrustedSenders {
		if strings.Contains(s, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

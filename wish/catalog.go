package wish

import "gjinn/core"

// CatalogPrompt is one entry of the fixed daily-prompt catalog.
type CatalogPrompt struct {
	ID         int           `json:"id"`
	Kind       core.WishKind `json:"type"`
	Text       string        `json:"text"`
	Category   string        `json:"category"`
	Difficulty string        `json:"difficulty"`
	Tags       []string      `json:"tags"`
}

// DefaultCatalog is the built-in prompt catalog, one suggestion per
// calendar day (cycling).
var DefaultCatalog = []CatalogPrompt{
	{1, core.WishKindImage, "A bioluminescent city floating in the clouds at twilight", "fantasy", "intermediate", []string{"fantasy", "sci-fi", "architecture"}},
	{2, core.WishKindImage, "An ancient library where books float and glow with magical energy", "fantasy", "beginner", []string{"magic", "library", "mystical"}},
	{3, core.WishKindAudio, "The sound of a mystical forest at dawn with fairy whispers", "nature", "intermediate", []string{"nature", "magical", "ambient"}},
	{4, core.WishKindText, "Write a short story about a robot discovering emotions", "sci-fi", "advanced", []string{"sci-fi", "emotions", "AI"}},
	{5, core.WishKindImage, "A steampunk workshop where clockwork butterflies are being built", "steampunk", "intermediate", []string{"steampunk", "workshop", "mechanical"}},
	{6, core.WishKindImage, "Underwater ruins of an advanced civilization with coral growing through technology", "sci-fi", "advanced", []string{"underwater", "ruins", "sci-fi", "nature"}},
	{7, core.WishKindAudio, "Create ambient sounds of a space station orbiting a distant planet", "sci-fi", "intermediate", []string{"space", "ambient", "sci-fi"}},
	{8, core.WishKindImage, "A dragon made entirely of autumn leaves taking flight", "fantasy", "beginner", []string{"dragon", "autumn", "nature"}},
	{9, core.WishKindText, "A tale of the last lighthouse keeper in a world of flying ships", "adventure", "intermediate", []string{"lighthouse", "adventure", "flying"}},
	{10, core.WishKindImage, "Crystal caves where each crystal contains a tiny universe", "fantasy", "advanced", []string{"crystals", "universe", "caves"}},
	{11, core.WishKindImage, "A cyberpunk street food vendor selling glowing noodles from a hover cart", "cyberpunk", "intermediate", []string{"cyberpunk", "food", "street"}},
	{12, core.WishKindAudio, "The musical conversation between whales and dolphins in the deep ocean", "nature", "beginner", []string{"ocean", "whales", "music"}},
	{13, core.WishKindImage, "A garden where flowers bloom in geometric patterns and mathematical fractals", "abstract", "advanced", []string{"geometric", "fractals", "garden"}},
	{14, core.WishKindText, "The diary entries of a time traveler stuck in a library between dimensions", "sci-fi", "advanced", []string{"time-travel", "diary", "dimensions"}},
	{15, core.WishKindImage, "Victorian-era inventors working on a machine to capture dreams", "steampunk", "intermediate", []string{"victorian", "dreams", "invention"}},
	{16, core.WishKindImage, "A cosmic phoenix made of stardust and nebula clouds", "fantasy", "intermediate", []string{"phoenix", "cosmic", "stardust"}},
	{17, core.WishKindAudio, "The sound of ancient wind chimes in a forgotten temple", "ambient", "beginner", []string{"wind-chimes", "temple", "ancient"}},
	{18, core.WishKindImage, "A miniature world existing inside a snow globe on a wizard's desk", "fantasy", "beginner", []string{"miniature", "snow-globe", "wizard"}},
	{19, core.WishKindText, "A love story between two AIs learning to understand human emotions", "romance", "advanced", []string{"AI", "love", "emotions"}},
	{20, core.WishKindImage, "Floating islands connected by bridges of pure light", "fantasy", "intermediate", []string{"floating-islands", "light-bridges", "magical"}},
	{21, core.WishKindImage, "A robot gardener tending to plants on Mars with Earth visible in the sky", "sci-fi", "intermediate", []string{"mars", "robot", "gardening", "earth"}},
	{22, core.WishKindAudio, "The rhythmic sounds of a blacksmith forging magic swords", "fantasy", "intermediate", []string{"blacksmith", "magic", "medieval"}},
	{23, core.WishKindImage, "A tea ceremony taking place inside a giant flower", "whimsical", "beginner", []string{"tea-ceremony", "flower", "miniature"}},
	{24, core.WishKindText, "The memoirs of the moon's first and only inhabitant", "sci-fi", "intermediate", []string{"moon", "solitude", "space"}},
	{25, core.WishKindImage, "A clockwork heart powered by captured starlight", "steampunk", "advanced", []string{"clockwork", "heart", "starlight"}},
	{26, core.WishKindImage, "Mermaids building coral cities in the twilight zone of the ocean", "fantasy", "intermediate", []string{"mermaids", "coral", "ocean-city"}},
	{27, core.WishKindAudio, "The sound of aurora borealis if it could sing", "nature", "advanced", []string{"aurora", "singing", "northern-lights"}},
	{28, core.WishKindImage, "A library where the books are windows to other worlds", "fantasy", "beginner", []string{"library", "portal", "other-worlds"}},
	{29, core.WishKindText, "A conversation between the last tree and the first seed of a new forest", "nature", "intermediate", []string{"tree", "seed", "conversation", "forest"}},
	{30, core.WishKindImage, "Time itself flowing like a river through a cosmic landscape", "abstract", "advanced", []string{"time", "river", "cosmic", "abstract"}},
	{31, core.WishKindImage, "A city built inside the hollow trunk of a colossal tree", "fantasy", "intermediate", []string{"tree-city", "colossal", "nature-architecture"}},
}

package vocab

// A rule maps any of its phrases to a canonical value. Phrases are folded
// (see languageutil.Fold) and matched on word boundaries. Tables are read top
// to bottom and the first matching row wins, so compounds sit above the
// shorter words they contain ("navy blue" above "blue", "dress shoes" above
// "dress").
type rule struct {
	value   string
	phrases []string
}

var categoryRules = []rule{
	{Shoes, []string{"dress shoes", "dress shoe", "shoes", "shoe", "sneakers", "sneaker", "trainers", "boots", "boot", "heels", "heel",
		"sandals", "sandal", "loafers", "loafer", "flats", "pumps", "oxfords", "mules", "slippers", "espadrilles", "stilettos", "footwear"}},
	{Bottom, []string{"boot cut", "bootcut"}},
	{Dress, []string{"shirt dress", "t shirt dress", "sweater dress", "slip dress", "maxi dress", "midi dress", "mini dress"}},
	{Outerwear, []string{"outerwear", "jackets", "jacket", "coats", "coat", "blazer", "parka", "trench", "puffer", "windbreaker",
		"raincoat", "overcoat", "bomber", "gilet", "poncho", "cape", "cardigan"}},
	{Top, []string{"dress shirt", "tops", "top", "shirts", "shirt", "t shirt", "tee", "blouse", "sweater", "hoodie", "sweatshirt",
		"polo", "tank", "camisole", "cami", "jumper", "pullover", "turtleneck", "tunic", "bodysuit", "henley", "jersey"}},
	{Dress, []string{"dresses", "dress", "gown", "jumpsuit", "romper", "sundress", "playsuit"}},
	{Bottom, []string{"bottoms", "bottom", "pants", "pant", "trousers", "jeans", "shorts", "skirt", "leggings", "chinos",
		"joggers", "sweatpants", "slacks", "culottes", "overalls", "cargos"}},
	{Accessory, []string{"accessories", "accessory", "bag", "handbag", "purse", "belt", "hat", "cap", "scarf", "necklace",
		"bracelet", "earrings", "ring", "watch", "sunglasses", "tie", "jewelry", "jewellery", "backpack", "clutch", "gloves", "beanie"}},
}

var colorRules = []rule{
	{Multicolor, []string{"multicolor", "multicolour", "multicolored", "multi color", "multi", "rainbow", "printed", "print",
		"patterned", "pattern", "floral", "plaid", "striped", "stripes", "tie dye", "colorful", "colourful"}},
	{Navy, []string{"navy blue", "navy", "dark blue", "midnight blue", "indigo"}},
	{Cream, []string{"cream", "ivory", "off white", "ecru", "eggshell", "vanilla"}},
	{Beige, []string{"beige", "khaki", "nude", "sand", "taupe", "stone", "oatmeal"}},
	{Brown, []string{"brown", "tan", "camel", "chocolate", "coffee", "mocha", "cognac", "chestnut", "caramel", "bronze"}},
	{Gold, []string{"gold", "golden"}},
	{Silver, []string{"silver", "metallic", "chrome", "platinum"}},
	{Gray, []string{"gray", "grey", "charcoal", "slate", "ash", "heather", "graphite"}},
	{Black, []string{"black", "jet", "onyx", "ebony"}},
	{White, []string{"white", "snow"}},
	{Red, []string{"red", "burgundy", "maroon", "wine", "crimson", "scarlet", "cherry", "oxblood", "reddish"}},
	{Pink, []string{"pink", "rose", "blush", "fuchsia", "magenta", "salmon", "coral"}},
	{Purple, []string{"purple", "violet", "lavender", "lilac", "plum", "mauve", "eggplant"}},
	{Orange, []string{"orange", "rust", "tangerine", "peach", "apricot", "terracotta"}},
	{Yellow, []string{"yellow", "mustard", "lemon", "canary"}},
	{Green, []string{"green", "olive", "emerald", "sage", "mint", "lime", "jade", "army", "forest"}},
	{Blue, []string{"blue", "denim", "sky", "cobalt", "teal", "turquoise", "aqua", "cyan", "bluish"}},
}

var styleRules = []rule{
	{Streetwear, []string{"streetwear", "street", "urban", "hip hop", "skate"}},
	{Sporty, []string{"sporty", "sport", "sports", "athletic", "athleisure", "active", "activewear", "gym", "workout", "running", "training"}},
	{Business, []string{"business", "smart casual", "office", "work", "professional", "corporate"}},
	{Formal, []string{"formal", "black tie", "tuxedo", "suit"}},
	{Elegant, []string{"elegant", "chic", "classy", "sophisticated", "dressy", "refined", "luxury", "luxurious"}},
	{Party, []string{"party", "clubbing", "club", "festive", "going out", "night out", "cocktail", "glam", "glamorous"}},
	{Bohemian, []string{"bohemian", "boho", "hippie", "festival", "folk"}},
	{Vintage, []string{"vintage", "retro", "antique", "old school", "y2k", "70s", "80s", "90s"}},
	{Minimalist, []string{"minimalist", "minimalistic", "minimal", "simple", "clean", "basic", "basics", "understated", "neutral"}},
	{Casual, []string{"casual", "everyday", "relaxed", "laid back", "comfortable", "comfy", "weekend", "lounge", "loungewear"}},
}

var seasonRules = []rule{
	{AllSeason, []string{"all season", "all seasons", "all year", "year round", "all weather", "any season", "seasonless"}},
	{Spring, []string{"spring"}},
	{Summer, []string{"summer", "hot weather", "warm weather"}},
	{Fall, []string{"fall", "autumn", "autumnal"}},
	{Winter, []string{"winter", "wintry", "cold weather", "snow"}},
}

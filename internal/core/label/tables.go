package label

// 查表資料與管線邏輯分離，擴充詞彙時不需要動到任何流程代碼。

// GenericLabels 泛用場景／餐具等禁用詞，偵測到一律丟棄
var GenericLabels = map[string]struct{}{
	"food": {}, "produce": {}, "plant": {}, "meal": {}, "dish": {}, "ingredient": {}, "cuisine": {},
	"natural foods": {}, "nutrition": {}, "grocery": {}, "organic food": {}, "freshness": {},
	"healthy food": {}, "cup": {}, "lunch": {}, "fruit": {}, "ammunition": {}, "ball": {}, "sport": {},
	"grenade": {}, "weapon": {}, "cricket ball": {}, "cricket": {}, "birthday cake": {}, "person": {},
	"chopping board": {}, "blade": {}, "knife": {}, "cooking": {}, "brunch": {}, "breakfast": {},
	"dinner": {}, "snacks": {}, "plate": {}, "furniture": {}, "dining table": {}, "table": {},
	"snack": {}, "bowl": {}, "cafeteria": {}, "indoor": {}, "restaurant": {}, "platter": {},
	"spoon": {}, "candle": {}, "cutlery": {}, "tableware": {}, "kitchen utensil": {}, "glass": {},
	"fork": {}, "napkin": {}, "saucer": {}, "tray": {}, "countertop": {}, "oven": {}, "stove": {},
	"pan": {}, "pot": {}, "baking": {}, "appliance": {},
}

// IngredientWhitelist 食材白名單：只有名單內的詞會被視為食材
var IngredientWhitelist = map[string]struct{}{
	// 蔬菜 / 水果
	"tomato": {}, "onion": {}, "garlic": {}, "ginger": {}, "carrot": {}, "potato": {}, "broccoli": {},
	"cabbage": {}, "spinach": {}, "lettuce": {}, "cucumber": {}, "eggplant": {}, "zucchini": {},
	"mushroom": {}, "bell pepper": {}, "pepper": {}, "chili": {}, "corn": {}, "peas": {}, "pumpkin": {},
	"cauliflower": {}, "asparagus": {}, "beetroot": {}, "celery": {}, "kale": {}, "leek": {}, "okra": {},
	"radish": {}, "sweet potato": {}, "avocado": {}, "apple": {}, "banana": {}, "orange": {},
	"lemon": {}, "lime": {}, "strawberry": {}, "blueberry": {}, "grape": {}, "pineapple": {},
	"mango": {}, "watermelon": {}, "peach": {}, "pear": {}, "kiwi": {},

	// 蛋白質 / 蛋 / 海鮮
	"chicken": {}, "beef": {}, "pork": {}, "lamb": {}, "turkey": {}, "duck": {}, "ham": {},
	"bacon": {}, "sausage": {}, "egg": {}, "fish": {}, "salmon": {}, "tuna": {}, "shrimp": {},
	"prawn": {}, "crab": {}, "lobster": {}, "mussel": {}, "clam": {}, "octopus": {}, "squid": {},

	// 乳製品
	"milk": {}, "butter": {}, "cheese": {}, "yogurt": {}, "cream": {}, "parmesan": {}, "mozzarella": {},

	// 穀物 / 主食
	"rice": {}, "brown rice": {}, "quinoa": {}, "oats": {}, "wheat": {}, "barley": {}, "flour": {},
	"noodles": {}, "pasta": {}, "bread": {}, "tortilla": {},

	// 豆類 / 堅果 / 種子
	"tofu": {}, "soybean": {}, "edamame": {}, "chickpeas": {}, "lentils": {}, "kidney beans": {},
	"black beans": {}, "peanuts": {}, "almonds": {}, "walnuts": {}, "cashews": {}, "hazelnuts": {},
	"pistachios": {}, "sesame": {}, "chia seeds": {}, "flaxseed": {}, "sunflower seeds": {},
	"pumpkin seeds": {},

	// 香草 / 香料 / 調味料
	"basil": {}, "parsley": {}, "cilantro": {}, "coriander": {}, "mint": {}, "rosemary": {},
	"thyme": {}, "oregano": {}, "dill": {}, "chives": {}, "bay leaf": {}, "cinnamon": {}, "clove": {},
	"nutmeg": {}, "star anise": {}, "cumin": {}, "turmeric": {}, "paprika": {}, "black pepper": {},
	"white pepper": {}, "sichuan peppercorn": {}, "ginger powder": {}, "garam masala": {},
	"five spice": {}, "curry powder": {}, "salt": {}, "sugar": {}, "brown sugar": {}, "honey": {},
	"maple syrup": {}, "soy sauce": {}, "vinegar": {}, "balsamic vinegar": {}, "olive oil": {},
	"sesame oil": {},

	// 其他 / 常備品
	"coconut": {}, "coconut milk": {}, "tomato paste": {}, "tomato sauce": {}, "ketchup": {},
	"mayonnaise": {}, "mustard": {}, "pickles": {},
}

// Aliases 簡單別名／單複數正規化表
var Aliases = map[string]string{
	"bell peppers": "bell pepper",
	"red pepper":   "bell pepper",
	"green pepper": "bell pepper",
	"capsicum":     "bell pepper",
	"chilies":      "chili",
	"chilli":       "chili",
	"chiles":       "chili",
	"tomatoes":     "tomato",
	"potatoes":     "potato",
	"mushrooms":    "mushroom",
	"eggs":         "egg",
	"noodle":       "noodles",
	"prawns":       "shrimp",
	"shrimps":      "shrimp",
	"scallion":     "chives",
	"spring onion": "chives",
	"cilantro":     "coriander", // 美式與英式的命名差異
	"bell_pepper":  "bell pepper",
	"kidney bean":  "kidney beans",
	"black bean":   "black beans",
}

// Synonyms 查詢語句的同義詞擴充表（依標籤查找，小寫鍵）
var Synonyms = map[string][]string{
	"macarons":  {"macaron", "macaroon", "rice cake", "cake", "birthday cake"},
	"hamburger": {"burger", "cheeseburger"},
	"pizza":     {"margherita", "pepperoni"},
	"cake":      {"birthday cake", "macaron"},
}

// DessertHints 甜點提示詞：標籤包含任一提示詞時套用較低的相似度門檻
var DessertHints = []string{"macaron", "macarons", "macaroon", "dessert", "cake", "cookie"}

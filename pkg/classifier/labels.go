package classifier

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Food101Labels is the category set of the Food-101 dataset, in the index
// order the model head was trained with.
var Food101Labels = []string{
	"apple_pie", "baby_back_ribs", "baklava", "beef_carpaccio", "beef_tartare",
	"beet_salad", "beignets", "bibimbap", "bread_pudding", "breakfast_burrito",
	"bruschetta", "caesar_salad", "cannoli", "caprese_salad", "carrot_cake",
	"ceviche", "cheesecake", "cheese_plate", "chicken_curry", "chicken_quesadilla",
	"chicken_wings", "chocolate_cake", "chocolate_mousse", "churros", "clam_chowder",
	"club_sandwich", "crab_cakes", "creme_brulee", "croque_madame", "cup_cakes",
	"deviled_eggs", "donuts", "dumplings", "edamame", "eggs_benedict",
	"escargots", "falafel", "filet_mignon", "fish_and_chips", "foie_gras",
	"french_fries", "french_onion_soup", "french_toast", "fried_calamari", "fried_rice",
	"frozen_yogurt", "garlic_bread", "gnocchi", "greek_salad", "grilled_cheese_sandwich",
	"grilled_salmon", "guacamole", "gyoza", "hamburger", "hot_and_sour_soup",
	"hot_dog", "huevos_rancheros", "hummus", "ice_cream", "lasagna",
	"lobster_bisque", "lobster_roll_sandwich", "macaroni_and_cheese", "macarons", "miso_soup",
	"mussels", "nachos", "omelette", "onion_rings", "oysters",
	"pad_thai", "paella", "pancakes", "panna_cotta", "peking_duck",
	"pho", "pizza", "pork_chop", "poutine", "prime_rib",
	"pulled_pork_sandwich", "ramen", "ravioli", "red_velvet_cake", "risotto",
	"samosa", "sashimi", "scallops", "seaweed_salad", "shrimp_and_grits",
	"spaghetti_bolognese", "spaghetti_carbonara", "spring_rolls", "steak", "strawberry_shortcake",
	"sushi", "tacos", "takoyaki", "tiramisu", "tuna_tartare", "waffles",
}

// LoadLabels reads one label per line. Blank lines and lines starting with
// '#' are skipped. An empty path yields Food101Labels.
func LoadLabels(path string) ([]string, error) {
	if path == "" {
		return append([]string(nil), Food101Labels...), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var labels []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		labels = append(labels, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}
	return labels, nil
}

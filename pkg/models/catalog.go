package models

// MenuItem is one entry of the fixed restaurant menu.
// Values reflect actual packaging units (boxes, containers, skewers),
// not individual pieces, because the camera sees closed boxes.
type MenuItem string

const (
	ItemCaliforniaRolls      MenuItem = "Boite de 6 California Rolls"
	ItemMaki                 MenuItem = "Boite de 6 Maki" // generic: saumon, thon, etc.
	ItemSashimiSaumon        MenuItem = "Boite de 6 Sashimi Saumon"
	ItemSashimiThon          MenuItem = "Boite de 6 Sashimi Thon"
	ItemGyoza                MenuItem = "Boite de 4 Gyoza"
	ItemYakitoriBoeufFromage MenuItem = "Yakitori Boeuf Fromage x2"
	ItemYakitoriBoulette     MenuItem = "Yakitori Boulette"
	ItemSoupeMiso            MenuItem = "Soupe Miso"
	ItemRamen                MenuItem = "Ramen"
	ItemSaladeWakame         MenuItem = "Salade Wakame"
	ItemBowlSaumon           MenuItem = "Bowl Saumon Teriyaki"
	ItemSauce                MenuItem = "Sauce" // generic: soja, teriyaki, etc.
	ItemMochi                MenuItem = "Boite de 2 Mochi"
)

// AllMenuItems returns the full catalog in menu order.
func AllMenuItems() []MenuItem {
	return []MenuItem{
		ItemCaliforniaRolls,
		ItemMaki,
		ItemSashimiSaumon,
		ItemSashimiThon,
		ItemGyoza,
		ItemYakitoriBoeufFromage,
		ItemYakitoriBoulette,
		ItemSoupeMiso,
		ItemRamen,
		ItemSaladeWakame,
		ItemBowlSaumon,
		ItemSauce,
		ItemMochi,
	}
}

// IsValid reports whether the item belongs to the catalog.
func (m MenuItem) IsValid() bool {
	switch m {
	case ItemCaliforniaRolls, ItemMaki, ItemSashimiSaumon, ItemSashimiThon,
		ItemGyoza, ItemYakitoriBoeufFromage, ItemYakitoriBoulette,
		ItemSoupeMiso, ItemRamen, ItemSaladeWakame, ItemBowlSaumon,
		ItemSauce, ItemMochi:
		return true
	}
	return false
}

// OrderSource is the delivery platform an order came from.
type OrderSource string

const (
	SourceUberEats  OrderSource = "ubereats"
	SourceDeliveroo OrderSource = "deliveroo"
)

// AllOrderSources returns the supported platforms.
func AllOrderSources() []OrderSource {
	return []OrderSource{SourceUberEats, SourceDeliveroo}
}

// IsValid reports whether the source is a supported platform.
func (s OrderSource) IsValid() bool {
	return s == SourceUberEats || s == SourceDeliveroo
}

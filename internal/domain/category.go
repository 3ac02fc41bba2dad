package domain

// Category is a display-grouping tag, assigned independently of attribution.
type Category string

const (
	CategoryCharacter Category = "character"
	CategoryLocation  Category = "location"
	CategoryObject    Category = "object"
	CategoryLore      Category = "lore"
	CategorySystem    Category = "system"
	CategoryGeneral   Category = "general"
)

func ValidCategory(c string) bool {
	switch Category(c) {
	case CategoryCharacter, CategoryLocation, CategoryObject,
		CategoryLore, CategorySystem, CategoryGeneral:
		return true
	}
	return false
}

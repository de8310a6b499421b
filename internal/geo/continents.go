// Package geo provides the country-name to continent classification used
// to enrich consulate records. The mapping table is embedded and versioned;
// callers that need a different table swap the injected Classifier.
package geo

import "strings"

// Unclassified is the sentinel continent for country names the table
// cannot resolve. Aggregations account for these records under their own
// category instead of dropping them.
const Unclassified = "Unclassified"

// TableVersion identifies the embedded mapping table revision.
const TableVersion = "2024-10"

// Classifier resolves a country name to a continent name.
// Implementations must be pure and side-effect free; unresolvable names
// return Unclassified, never an empty string.
type Classifier interface {
	Continent(country string) string
}

// TableClassifier classifies countries using the embedded lookup table.
type TableClassifier struct {
	table map[string]string
}

// NewTableClassifier returns a classifier backed by the embedded table.
func NewTableClassifier() *TableClassifier {
	return &TableClassifier{table: continentTable}
}

// Continent returns the continent for the given country name, or
// Unclassified when the name cannot be resolved.
func (c *TableClassifier) Continent(country string) string {
	if continent, ok := c.table[normalizeCountry(country)]; ok {
		return continent
	}
	return Unclassified
}

// Version returns the revision of the underlying mapping table.
func (c *TableClassifier) Version() string {
	return TableVersion
}

// normalizeCountry canonicalizes a human-authored country name for lookup:
// case folding, whitespace collapsing, and punctuation stripping.
func normalizeCountry(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	var b strings.Builder
	b.Grow(len(name))
	lastSpace := false
	for _, r := range name {
		switch {
		case r == '.' || r == '\'' || r == '’' || r == ',':
			// drop punctuation
		case r == ' ' || r == '\t' || r == '-' || r == '_':
			if !lastSpace && b.Len() > 0 {
				b.WriteRune(' ')
				lastSpace = true
			}
		default:
			b.WriteRune(r)
			lastSpace = false
		}
	}
	return strings.TrimSpace(b.String())
}

// continentTable maps normalized country names to continents. Common
// spelling variants and official long forms are listed alongside the
// short names so lookups survive heterogeneous source spreadsheets.
var continentTable = map[string]string{
	// Africa
	"algeria": "Africa", "angola": "Africa", "benin": "Africa",
	"botswana": "Africa", "burkina faso": "Africa", "burundi": "Africa",
	"cabo verde": "Africa", "cape verde": "Africa", "cameroon": "Africa",
	"central african republic": "Africa", "chad": "Africa",
	"comoros": "Africa", "congo": "Africa",
	"congo (brazzaville)": "Africa", "republic of the congo": "Africa",
	"democratic republic of the congo": "Africa", "dr congo": "Africa",
	"congo (kinshasa)": "Africa", "cote divoire": "Africa",
	"côte divoire": "Africa", "ivory coast": "Africa",
	"djibouti": "Africa", "egypt": "Africa", "equatorial guinea": "Africa",
	"eritrea": "Africa", "eswatini": "Africa", "swaziland": "Africa",
	"ethiopia": "Africa", "gabon": "Africa", "gambia": "Africa",
	"the gambia": "Africa", "ghana": "Africa", "guinea": "Africa",
	"guinea bissau": "Africa", "kenya": "Africa", "lesotho": "Africa",
	"liberia": "Africa", "libya": "Africa", "madagascar": "Africa",
	"malawi": "Africa", "mali": "Africa", "mauritania": "Africa",
	"mauritius": "Africa", "morocco": "Africa", "mozambique": "Africa",
	"namibia": "Africa", "niger": "Africa", "nigeria": "Africa",
	"rwanda": "Africa", "sao tome and principe": "Africa",
	"senegal": "Africa", "seychelles": "Africa", "sierra leone": "Africa",
	"somalia": "Africa", "south africa": "Africa", "south sudan": "Africa",
	"sudan": "Africa", "tanzania": "Africa",
	"united republic of tanzania": "Africa", "togo": "Africa",
	"tunisia": "Africa", "uganda": "Africa", "zambia": "Africa",
	"zimbabwe": "Africa",

	// Asia
	"afghanistan": "Asia", "armenia": "Asia", "azerbaijan": "Asia",
	"bahrain": "Asia", "bangladesh": "Asia", "bhutan": "Asia",
	"brunei": "Asia", "brunei darussalam": "Asia", "cambodia": "Asia",
	"china": "Asia", "peoples republic of china": "Asia",
	"georgia": "Asia", "hong kong": "Asia", "hong kong sar": "Asia",
	"india": "Asia", "indonesia": "Asia", "iran": "Asia",
	"islamic republic of iran": "Asia", "iraq": "Asia", "israel": "Asia",
	"japan": "Asia", "jordan": "Asia", "kazakhstan": "Asia",
	"kuwait": "Asia", "kyrgyzstan": "Asia", "laos": "Asia",
	"lao peoples democratic republic": "Asia", "lebanon": "Asia",
	"macao": "Asia", "malaysia": "Asia", "maldives": "Asia",
	"mongolia": "Asia", "myanmar": "Asia", "burma": "Asia",
	"nepal": "Asia", "north korea": "Asia", "oman": "Asia",
	"pakistan": "Asia", "palestine": "Asia",
	"palestinian authority": "Asia", "philippines": "Asia",
	"qatar": "Asia", "saudi arabia": "Asia", "singapore": "Asia",
	"south korea": "Asia", "republic of korea": "Asia", "korea": "Asia",
	"sri lanka": "Asia", "syria": "Asia", "syrian arab republic": "Asia",
	"taiwan": "Asia", "tajikistan": "Asia", "thailand": "Asia",
	"timor leste": "Asia", "east timor": "Asia", "turkmenistan": "Asia",
	"united arab emirates": "Asia", "uae": "Asia", "uzbekistan": "Asia",
	"vietnam": "Asia", "viet nam": "Asia", "yemen": "Asia",

	// Europe
	"albania": "Europe", "andorra": "Europe", "austria": "Europe",
	"belarus": "Europe", "belgium": "Europe",
	"bosnia and herzegovina": "Europe", "bulgaria": "Europe",
	"croatia": "Europe", "cyprus": "Europe", "czech republic": "Europe",
	"czechia": "Europe", "denmark": "Europe", "estonia": "Europe",
	"finland": "Europe", "france": "Europe", "germany": "Europe",
	"greece": "Europe", "hungary": "Europe", "iceland": "Europe",
	"ireland": "Europe", "italy": "Europe", "kosovo": "Europe",
	"latvia": "Europe", "liechtenstein": "Europe", "lithuania": "Europe",
	"luxembourg": "Europe", "malta": "Europe", "moldova": "Europe",
	"republic of moldova": "Europe", "monaco": "Europe",
	"montenegro": "Europe", "netherlands": "Europe",
	"north macedonia": "Europe", "macedonia": "Europe",
	"norway": "Europe", "poland": "Europe", "portugal": "Europe",
	"romania": "Europe", "russia": "Europe",
	"russian federation": "Europe", "san marino": "Europe",
	"serbia": "Europe", "slovakia": "Europe", "slovenia": "Europe",
	"spain": "Europe", "sweden": "Europe", "switzerland": "Europe",
	"turkey": "Europe", "türkiye": "Europe", "turkiye": "Europe",
	"ukraine": "Europe", "united kingdom": "Europe",
	"great britain": "Europe", "uk": "Europe", "vatican city": "Europe",
	"holy see": "Europe",

	// North America
	"antigua and barbuda": "North America", "bahamas": "North America",
	"barbados": "North America", "belize": "North America",
	"canada": "North America", "costa rica": "North America",
	"cuba": "North America", "dominica": "North America",
	"dominican republic": "North America",
	"el salvador": "North America", "grenada": "North America",
	"guatemala": "North America", "haiti": "North America",
	"honduras": "North America", "jamaica": "North America",
	"mexico": "North America", "nicaragua": "North America",
	"panama": "North America", "saint kitts and nevis": "North America",
	"saint lucia": "North America",
	"saint vincent and the grenadines": "North America",
	"trinidad and tobago": "North America",
	"united states": "North America",
	"united states of america": "North America", "usa": "North America",

	// South America
	"argentina": "South America", "bolivia": "South America",
	"brazil": "South America", "chile": "South America",
	"colombia": "South America", "ecuador": "South America",
	"guyana": "South America", "paraguay": "South America",
	"peru": "South America", "suriname": "South America",
	"uruguay": "South America", "venezuela": "South America",

	// Oceania
	"australia": "Oceania", "fiji": "Oceania", "kiribati": "Oceania",
	"marshall islands": "Oceania", "micronesia": "Oceania",
	"nauru": "Oceania", "new zealand": "Oceania", "palau": "Oceania",
	"papua new guinea": "Oceania", "samoa": "Oceania",
	"solomon islands": "Oceania", "tonga": "Oceania",
	"tuvalu": "Oceania", "vanuatu": "Oceania",
}

// Package locality normalizes free-form place names to the canonical
// spellings stored in the companies table. Raw input arrives with
// inconsistent transliteration (English, Kazakh, Russian); filtering
// must happen on canonical tokens only, so normalization runs before
// the query is built, never after.
package locality

import (
	"sort"
	"strings"

	"github.com/qamqor-cloud/sponsorscope/internal/domain"
)

// translations maps lowercase English spellings to the canonical
// Russian place names used in the record store.
var translations = map[string]string{
	// Major cities
	"almaty":           "Алматы",
	"astana":           "Астана",
	"nur-sultan":       "Нур-Султан",
	"nursultan":        "Нур-Султан",
	"shymkent":         "Шымкент",
	"aktobe":           "Актобе",
	"taraz":            "Тараз",
	"pavlodar":         "Павлодар",
	"ust-kamenogorsk":  "Усть-Каменогорск",
	"oskemen":          "Оскемен",
	"semey":            "Семей",
	"atyrau":           "Атырау",
	"kostanay":         "Костанай",
	"petropavl":        "Петропавл",
	"karaganda":        "Караганда",
	"aktau":            "Актау",
	"kyzylorda":        "Кызылорда",
	"uralsk":           "Уральск",
	"oral":             "Орал",
	"turkestan":        "Туркестан",
	"ekibastuz":        "Экибастуз",
	"kokshetau":        "Кокшетау",
	"temirtau":         "Темиртау",
	"rudny":            "Рудный",
	"zhezkazgan":       "Жезказган",
	"balkhash":         "Балхаш",
	"taldykorgan":      "Талдыкорган",
	"zhanaozen":        "Жанаозен",
	"stepnogorsk":      "Степногорск",
	"ridder":           "Риддер",
	"baikonur":         "Байконур",

	// Regions
	"akmola region":           "Акмолинская область",
	"aktobe region":           "Актюбинская область",
	"almaty region":           "Алматинская область",
	"atyrau region":           "Атырауская область",
	"east kazakhstan":         "Восточно-Казахстанская область",
	"east kazakhstan region":  "Восточно-Казахстанская область",
	"jambyl region":           "Жамбылская область",
	"zhambyl region":          "Жамбылская область",
	"karaganda region":        "Карагандинская область",
	"kostanay region":         "Костанайская область",
	"kyzylorda region":        "Кызылординская область",
	"mangystau region":        "Мангыстауская область",
	"north kazakhstan":        "Северо-Казахстанская область",
	"north kazakhstan region": "Северо-Казахстанская область",
	"pavlodar region":         "Павлодарская область",
	"south kazakhstan":        "Южно-Казахстанская область",
	"south kazakhstan region": "Южно-Казахстанская область",
	"west kazakhstan":         "Западно-Казахстанская область",
	"west kazakhstan region":  "Западно-Казахстанская область",
}

// canonical maps lowercase canonical names back to their stored
// spelling, so already-normalized input passes through unchanged
// regardless of letter case.
var canonical = func() map[string]string {
	m := make(map[string]string, len(translations))
	for _, v := range translations {
		m[strings.ToLower(v)] = v
	}
	return m
}()

// Count is one stored locality with its company count.
type Count struct {
	Locality  string
	Companies int
}

// Normalize resolves raw user input to a canonical locality token.
// Returns ErrUnknownLocality for tokens outside the known set.
func Normalize(raw string) (string, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return "", domain.ErrUnknownLocality
	}
	lower := strings.ToLower(token)
	if c, ok := canonical[lower]; ok {
		return c, nil
	}
	if c, ok := translations[lower]; ok {
		return c, nil
	}
	return "", domain.ErrUnknownLocality
}

// Supported returns the canonical locality names in a stable sorted
// order, for the supported-locations endpoint.
func Supported() []string {
	out := make([]string, 0, len(canonical))
	seen := make(map[string]struct{}, len(canonical))
	for _, v := range canonical {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Package roster fabricates the hospital's people and devices: staff with
// plausible Turkish names, titles and institutional emails, and patients
// with national ids and a realistic age pyramid.
package roster

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/medaudit/audit-trail-api/internal/model"
)

var maleFirstNames = []string{
	"Ahmet", "Mehmet", "Mustafa", "Ali", "Hüseyin", "Hasan", "İbrahim",
	"Osman", "Murat", "Emre", "Burak", "Kemal", "Serkan", "Tolga", "Onur",
}

var femaleFirstNames = []string{
	"Ayşe", "Fatma", "Emine", "Hatice", "Zeynep", "Elif", "Meryem",
	"Özlem", "Selin", "Derya", "Gül", "Esra", "Büşra", "Seda", "Pınar",
}

var lastNames = []string{
	"Yılmaz", "Kaya", "Demir", "Çelik", "Şahin", "Yıldız", "Yıldırım",
	"Öztürk", "Aydın", "Özdemir", "Arslan", "Doğan", "Kılıç", "Aslan",
	"Çetin", "Kara", "Koç", "Kurt", "Özkan", "Şimşek",
}

// staffTitles is weighted toward working radiologists; professors are rare.
var staffTitles = []struct {
	Title  string
	Weight int
}{
	{"Dr.", 30},
	{"Uzm. Dr.", 35},
	{"Doç. Dr.", 15},
	{"Prof. Dr.", 15},
	{"Tekniker", 5},
}

var staffDepartments = []string{
	"Radyoloji",
	"Kardiyoloji",
	"Nöroloji",
	"Acil Tıp",
	"Dahiliye",
	"Kadın Doğum",
}

// turkishASCII maps Turkish letters to their email-safe equivalents.
var turkishASCII = strings.NewReplacer(
	"ç", "c", "Ç", "c",
	"ğ", "g", "Ğ", "g",
	"ı", "i", "İ", "i",
	"ö", "o", "Ö", "o",
	"ş", "s", "Ş", "s",
	"ü", "u", "Ü", "u",
)

// Roster draws entities from the name tables. Not safe for concurrent
// use; give each goroutine its own.
type Roster struct {
	rng *rand.Rand
}

func New(rng *rand.Rand) *Roster {
	return &Roster{rng: rng}
}

// Staff fabricates one staff member for the hospital. seq disambiguates
// the id within a department, e.g. H01-RAD-D-00007.
func (r *Roster) Staff(hospitalID, hospitalCode string, seq int) *model.User {
	gender := r.rng.Intn(2)
	var first string
	if gender == 0 {
		first = maleFirstNames[r.rng.Intn(len(maleFirstNames))]
	} else {
		first = femaleFirstNames[r.rng.Intn(len(femaleFirstNames))]
	}
	last := lastNames[r.rng.Intn(len(lastNames))]

	title := r.weightedTitle()
	dept := staffDepartments[r.rng.Intn(len(staffDepartments))]

	role := roleFor(dept)
	if title == "Tekniker" {
		role = model.RoleTechnician
	}

	now := time.Now()
	return &model.User{
		ID:         fmt.Sprintf("%s-%s-D-%05d", hospitalCode, deptCode(dept), seq),
		Name:       fmt.Sprintf("%s %s %s", title, first, last),
		Title:      title,
		Department: dept,
		Role:       role,
		Status:     model.UserStatusActive,
		Email:      r.email(first, last, hospitalCode),
		HospitalID: hospitalID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// email builds the institutional address. A short random suffix keeps
// namesakes from colliding.
func (r *Roster) email(first, last, hospitalCode string) string {
	// Replace Turkish letters before lowering: ToLower turns İ into a
	// dotted form the replacer no longer matches.
	local := strings.ToLower(turkishASCII.Replace(first + "." + last))
	return fmt.Sprintf("%s.%08x@%s.saglik.gov.tr",
		local, r.rng.Uint32(), strings.ToLower(hospitalCode))
}

func (r *Roster) weightedTitle() string {
	total := 0
	for _, t := range staffTitles {
		total += t.Weight
	}
	pick := r.rng.Intn(total)
	for _, t := range staffTitles {
		if pick < t.Weight {
			return t.Title
		}
		pick -= t.Weight
	}
	return staffTitles[0].Title
}

func roleFor(dept string) model.UserRole {
	switch dept {
	case "Radyoloji":
		return model.RoleRadiologist
	case "Kardiyoloji":
		return model.RoleCardiologist
	case "Nöroloji":
		return model.RoleNeurologist
	}
	return model.RoleGeneralPractitioner
}

func deptCode(dept string) string {
	switch dept {
	case "Radyoloji":
		return "RAD"
	case "Kardiyoloji":
		return "KAR"
	case "Nöroloji":
		return "NRL"
	case "Acil Tıp":
		return "ACL"
	case "Dahiliye":
		return "DAH"
	case "Kadın Doğum":
		return "KDN"
	}
	return "GEN"
}

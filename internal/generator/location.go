package generator

import (
	"fmt"
	"strings"
)

// locationDetail is the physical placement attached to every event.
type locationDetail struct {
	Floor       string
	Clinic      string
	Unit        string
	Location    string
	Room        string
	Bed         string
	Workstation string
}

func (l locationDetail) asMap() map[string]interface{} {
	m := map[string]interface{}{
		"floor":       l.Floor,
		"clinic":      l.Clinic,
		"unit":        l.Unit,
		"location":    l.Location,
		"room_number": l.Room,
		"workstation": l.Workstation,
		"bed_number":  nil,
	}
	if l.Bed != "" {
		m["bed_number"] = l.Bed
	}
	return m
}

var floors = []string{"Zemin Kat", "1. Kat", "2. Kat", "3. Kat", "4. Kat", "Bodrum Kat"}

var clinics = []string{
	"Kardiyoloji Polikliniği",
	"Nöroloji Polikliniği",
	"Radyoloji Bölümü",
	"Acil Servis",
	"Göğüs Hastalıkları",
	"Dahiliye Polikliniği",
	"Genel Cerrahi",
	"Ortopedi ve Travmatoloji",
	"Kadın Doğum",
	"Pediatri Polikliniği",
	"Göz Hastalıkları",
	"Kulak Burun Boğaz",
}

var units = []string{
	"Yoğun Bakım Ünitesi",
	"Koroner Yoğun Bakım",
	"Ameliyathane",
	"Görüntüleme Merkezi",
	"Laboratuvar",
	"Enjeksiyon Odası",
	"Muayene Odası",
	"Triage",
	"Hasta Kabul",
	"Arşiv Birimi",
}

// floorUnits lists the units actually housed on each floor. The basement
// has no fixed tenants, so draws there fall back to the global unit list.
var floorUnits = map[string][]string{
	"Zemin Kat": {"Acil Servis", "Radyoloji Bölümü", "Hasta Kabul", "Laboratuvar"},
	"1. Kat":    {"Kardiyoloji Polikliniği", "Dahiliye Polikliniği", "Muayene Odası"},
	"2. Kat":    {"Yoğun Bakım Ünitesi", "Koroner Yoğun Bakım", "Ameliyathane"},
	"3. Kat":    {"Görüntüleme Merkezi", "Nöroloji Polikliniği", "Göğüs Hastalıkları"},
	"4. Kat":    {"Genel Cerrahi", "Ortopedi ve Travmatoloji", "Kadın Doğum"},
}

// clinicRule pins a known clinic to its floor and the units it operates.
// The slice is ordered: the first matching substring wins. An empty unit
// list means the clinic is its own unit.
type clinicRule struct {
	substrs []string
	floor   string
	units   []string
}

var clinicRules = []clinicRule{
	{[]string{"Radyoloji", "Görüntüleme"}, "Zemin Kat", []string{"Radyoloji Bölümü", "Görüntüleme Merkezi"}},
	{[]string{"Kardiyoloji"}, "1. Kat", []string{"Kardiyoloji Polikliniği"}},
	{[]string{"Nöroloji"}, "3. Kat", []string{"Nöroloji Polikliniği"}},
	{[]string{"Dahiliye"}, "1. Kat", []string{"Dahiliye Polikliniği"}},
	{[]string{"Yoğun Bakım"}, "2. Kat", nil},
	{[]string{"Acil"}, "Zemin Kat", []string{"Acil Servis"}},
	{[]string{"Kadın Doğum", "Kadın"}, "4. Kat", []string{"Kadın Doğum"}},
}

// locationInfo resolves the full placement for an event. A known clinic
// pins both the floor and the unit through the rule cascade; without a
// clinic the floor is drawn first and the clinic inferred back from the
// unit that floor houses.
func (e *Engine) locationInfo(clinic string) locationDetail {
	var floor, unit string

	if clinic != "" {
		matched := false
		for _, r := range clinicRules {
			for _, s := range r.substrs {
				if strings.Contains(clinic, s) {
					floor = r.floor
					if len(r.units) > 0 {
						unit = r.units[e.rng.Intn(len(r.units))]
					} else {
						unit = clinic
					}
					matched = true
					break
				}
			}
			if matched {
				break
			}
		}
		if !matched {
			floor = floors[e.rng.Intn(len(floors))]
			unit = clinic
		}
	} else {
		floor = floors[e.rng.Intn(len(floors))]
		pool := floorUnits[floor]
		if len(pool) == 0 {
			pool = units
		}
		unit = pool[e.rng.Intn(len(pool))]
		clinic = clinicForUnit(e, unit)
	}

	d := locationDetail{
		Floor:    floor,
		Clinic:   clinic,
		Unit:     unit,
		Location: fmt.Sprintf("%s - %s", floor, unit),
		Room:     fmt.Sprintf("%d", 100+e.rng.Intn(500)),
	}
	if e.rng.Intn(2) == 0 {
		d.Bed = fmt.Sprintf("Yatak-%d", 1+e.rng.Intn(4))
	}
	d.Workstation = fmt.Sprintf("WS-%s%d", string([]rune(floor)[0]), 10+e.rng.Intn(90))
	return d
}

// clinicForUnit maps a unit name back to the clinic responsible for it.
func clinicForUnit(e *Engine, unit string) string {
	switch {
	case strings.Contains(unit, "Radyoloji"), strings.Contains(unit, "Görüntüleme"):
		return "Radyoloji Bölümü"
	case strings.Contains(unit, "Yoğun Bakım"), strings.Contains(unit, "Koroner"):
		return "Yoğun Bakım Ünitesi"
	case strings.Contains(unit, "Acil"):
		return "Acil Servis"
	case strings.Contains(unit, "Ameliyathane"):
		return "Genel Cerrahi"
	}
	return clinics[e.rng.Intn(len(clinics))]
}

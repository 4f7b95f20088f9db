package roster

import (
	"fmt"
	"time"

	"github.com/medaudit/audit-trail-api/internal/model"
)

// ageBands shapes the patient age pyramid toward the middle-aged and
// elderly groups that dominate imaging traffic.
var ageBands = []struct {
	Min, Max int
	Weight   int
}{
	{0, 17, 10},
	{18, 39, 25},
	{40, 64, 35},
	{65, 90, 30},
}

var patientCities = []string{
	"İstanbul", "Ankara", "İzmir", "Bursa", "Antalya", "Adana", "Konya",
}

// Patient fabricates one patient registered on regDate. seq disambiguates
// the id within that day, e.g. H01-P-20240115-000042.
func (r *Roster) Patient(hospitalID, hospitalCode string, regDate time.Time, seq int) *model.Patient {
	gender := model.GenderMale
	var first string
	if r.rng.Intn(2) == 0 {
		first = femaleFirstNames[r.rng.Intn(len(femaleFirstNames))]
		gender = model.GenderFemale
	} else {
		first = maleFirstNames[r.rng.Intn(len(maleFirstNames))]
	}
	last := lastNames[r.rng.Intn(len(lastNames))]

	age := r.weightedAge()
	birth := regDate.AddDate(-age, 0, -r.rng.Intn(365))

	now := time.Now()
	return &model.Patient{
		ID:         fmt.Sprintf("%s-P-%s-%06d", hospitalCode, regDate.Format("20060102"), seq),
		TCNo:       r.tcNo(),
		Name:       fmt.Sprintf("%s %s", first, last),
		Gender:     gender,
		BirthDate:  birth,
		Status:     model.PatientStatusActive,
		Phone:      fmt.Sprintf("+90 5%02d %03d %02d %02d", r.rng.Intn(60), r.rng.Intn(1000), r.rng.Intn(100), r.rng.Intn(100)),
		Address:    patientCities[r.rng.Intn(len(patientCities))],
		HospitalID: hospitalID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// tcNo fabricates an 11-digit national id. First digit is never zero;
// this is synthetic data, the checksum is not computed.
func (r *Roster) tcNo() string {
	digits := make([]byte, 11)
	digits[0] = byte('1' + r.rng.Intn(9))
	for i := 1; i < 11; i++ {
		digits[i] = byte('0' + r.rng.Intn(10))
	}
	return string(digits)
}

func (r *Roster) weightedAge() int {
	total := 0
	for _, b := range ageBands {
		total += b.Weight
	}
	pick := r.rng.Intn(total)
	for _, b := range ageBands {
		if pick < b.Weight {
			return b.Min + r.rng.Intn(b.Max-b.Min+1)
		}
		pick -= b.Weight
	}
	return 45
}

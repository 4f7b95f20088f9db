package roster

import (
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medaudit/audit-trail-api/internal/model"
)

func newRoster() *Roster {
	return New(rand.New(rand.NewSource(7)))
}

func TestStaffShape(t *testing.T) {
	r := newRoster()

	u := r.Staff("H01", "H01", 7)
	assert.Regexp(t, `^H01-[A-Z]{3}-D-00007$`, u.ID)
	assert.Equal(t, "H01", u.HospitalID)
	assert.Equal(t, model.UserStatusActive, u.Status)
	assert.NotEmpty(t, u.Title)
	assert.NotEmpty(t, u.Department)
	assert.True(t, strings.HasPrefix(u.Name, u.Title), "name %q must carry the title", u.Name)
}

func TestStaffEmailIsASCII(t *testing.T) {
	r := newRoster()

	for i := 1; i <= 50; i++ {
		u := r.Staff("H01", "H01", i)
		assert.Regexp(t, `^[a-z]+\.[a-z]+\.[0-9a-f]{8}@h01\.saglik\.gov\.tr$`, u.Email,
			"email for %s", u.Name)
	}
}

func TestStaffTechnicianRole(t *testing.T) {
	r := newRoster()

	// Titles are weighted; draw enough to see a technician.
	sawTechnician := false
	for i := 1; i <= 200 && !sawTechnician; i++ {
		u := r.Staff("H01", "H01", i)
		if u.Title == "Tekniker" {
			assert.Equal(t, model.RoleTechnician, u.Role)
			sawTechnician = true
		}
	}
	assert.True(t, sawTechnician, "no technician drawn in 200 tries")
}

func TestPatientShape(t *testing.T) {
	r := newRoster()
	regDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	p := r.Patient("H01", "H01", regDate, 42)
	assert.Equal(t, "H01-P-20240315-000042", p.ID)
	assert.Equal(t, "H01", p.HospitalID)
	assert.Equal(t, model.PatientStatusActive, p.Status)
	assert.Regexp(t, `^[1-9][0-9]{10}$`, p.TCNo)
	assert.Regexp(t, `^\+90 5`, p.Phone)
	require.False(t, p.BirthDate.IsZero())
	assert.True(t, p.BirthDate.Before(regDate))
}

func TestPatientAgeBounds(t *testing.T) {
	r := newRoster()
	regDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 200; i++ {
		p := r.Patient("H01", "H01", regDate, i)
		age := int(regDate.Sub(p.BirthDate).Hours() / 24 / 365)
		assert.GreaterOrEqual(t, age, 0)
		assert.LessOrEqual(t, age, 91)
	}
}

func TestPatientGenderMatchesNamePool(t *testing.T) {
	r := newRoster()
	regDate := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	female := make(map[string]bool)
	for _, n := range femaleFirstNames {
		female[n] = true
	}

	for i := 1; i <= 100; i++ {
		p := r.Patient("H01", "H01", regDate, i)
		first := strings.SplitN(p.Name, " ", 2)[0]
		if female[first] {
			assert.Equal(t, model.GenderFemale, p.Gender, "patient %s", p.Name)
		} else {
			assert.Equal(t, model.GenderMale, p.Gender, "patient %s", p.Name)
		}
	}
}

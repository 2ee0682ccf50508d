package validate

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		required bool
		valid    bool
	}{
		{"simple name", "Mario", true, true},
		{"accented name", "Niccolò", true, true},
		{"apostrophe", "D'Angelo", true, true},
		{"hyphen and space", "Anna-Maria Rossi", true, true},
		{"empty required", "", true, false},
		{"empty optional", "", false, true},
		{"whitespace only required", "   ", true, false},
		{"single char", "M", true, false},
		{"two chars", "Lu", true, true},
		{"exactly 100 chars", strings.Repeat("a", 100), true, true},
		{"101 chars", strings.Repeat("a", 101), true, false},
		{"digits rejected", "Mario2", true, false},
		{"symbols rejected", "Mario!", true, false},
		{"internal tab rejected", "Anna\tMaria", true, false},
		{"internal newline rejected", "Anna\nMaria", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := Name(tt.value, tt.required)
			if tt.valid {
				assert.Empty(t, msg)
			} else {
				assert.NotEmpty(t, msg)
			}
		})
	}
}

func TestEmail(t *testing.T) {
	assert.Empty(t, Email("mario.rossi@example.com", false))
	assert.Empty(t, Email("", false))
	assert.NotEmpty(t, Email("", true))
	assert.NotEmpty(t, Email("not-an-email", false))
	assert.NotEmpty(t, Email("missing@tld", false))
	assert.NotEmpty(t, Email("spaces in@example.com", false))

	long := strings.Repeat("a", 250) + "@example.com"
	assert.NotEmpty(t, Email(long, false))
}

func TestDateOfBirth(t *testing.T) {
	assert.Empty(t, DateOfBirth("1984-06-12", false))
	assert.Empty(t, DateOfBirth("", false))
	assert.NotEmpty(t, DateOfBirth("", true))
	assert.NotEmpty(t, DateOfBirth("12/06/1984", false))
	assert.NotEmpty(t, DateOfBirth("1899-12-31", false))

	future := time.Now().UTC().AddDate(0, 0, 1).Format("2006-01-02")
	assert.NotEmpty(t, DateOfBirth(future, false))

	today := time.Now().UTC().Format("2006-01-02")
	assert.Empty(t, DateOfBirth(today, false))
}

func TestExamNameAndDuration(t *testing.T) {
	assert.Empty(t, ExamName("Ecografia"))
	assert.NotEmpty(t, ExamName(""))
	assert.NotEmpty(t, ExamName("Tc"))
	assert.NotEmpty(t, ExamName(strings.Repeat("x", 101)))

	assert.Empty(t, ExamDuration(30))
	assert.Empty(t, ExamDuration(480))
	assert.NotEmpty(t, ExamDuration(0))
	assert.NotEmpty(t, ExamDuration(-15))
	assert.NotEmpty(t, ExamDuration(481))
}

func TestFieldDispatch(t *testing.T) {
	assert.Empty(t, Field("firstName", "Mario", Options{Required: true}))
	assert.NotEmpty(t, Field("firstName", "", Options{Required: true}))
	assert.Empty(t, Field("email", "", Options{}))
	assert.NotEmpty(t, Field("email", "nope", Options{}))
	assert.Empty(t, Field("durationMinutes", "45", Options{}))
	assert.NotEmpty(t, Field("durationMinutes", "many", Options{}))
	assert.Empty(t, Field("unknownField", "anything", Options{}))
}

func TestPatientForm(t *testing.T) {
	errors := PatientForm(PatientFormData{
		FirstName:   "Mario",
		LastName:    "",
		Email:       "broken",
		PhoneNumber: "+393331234567",
	})
	assert.NotContains(t, errors, "firstName")
	assert.Contains(t, errors, "lastName")
	assert.Contains(t, errors, "email")
	assert.NotContains(t, errors, "phoneNumber")
}

func TestDoctorForm(t *testing.T) {
	errors := DoctorForm(DoctorFormData{
		FirstName:      "Laura",
		LastName:       "Bianchi",
		Specialization: strings.Repeat("s", 151),
	})
	assert.Contains(t, errors, "specialization")
	assert.Len(t, errors, 1)
}

func TestPhoneNumber(t *testing.T) {
	assert.Empty(t, PhoneNumber(""))
	assert.Empty(t, PhoneNumber("+393331234567"))
	assert.Empty(t, PhoneNumber("+39 333 123 4567"))
	assert.NotEmpty(t, PhoneNumber("003933312345"))
	assert.NotEmpty(t, PhoneNumber("+3933312"))
	assert.NotEmpty(t, PhoneNumber("+39"+strings.Repeat("3", 20)))
}

func TestNormalizePhoneNumber(t *testing.T) {
	assert.Equal(t, "+393331234567", NormalizePhoneNumber("3331234567"))
	assert.Equal(t, "+393331234567", NormalizePhoneNumber("393331234567"))
	assert.Equal(t, "+393331234567", NormalizePhoneNumber("+39 333-123.4567"))
	assert.Equal(t, "", NormalizePhoneNumber(""))
	assert.Equal(t, "", NormalizePhoneNumber("---"))
}

func TestEnsurePhonePrefix(t *testing.T) {
	assert.Equal(t, "+393331234567", EnsurePhonePrefix("3331234567"))
	assert.Equal(t, "+393331234567", EnsurePhonePrefix("+393331234567"))
	assert.Equal(t, "", EnsurePhonePrefix(""))
	assert.Equal(t, "", EnsurePhonePrefix("   "))
}

package utils

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/vigilia/patrol-ops/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonFirstNames = []string{
	"Marco", "Luca", "Giulia", "Sara", "Andrea", "Paolo", "Elena", "Chiara",
	"Davide", "Francesca", "Matteo", "Silvia", "Stefano", "Laura", "Giorgio",
	"Anna", "Roberto", "Martina", "Simone", "Valentina",
}

var commonLastNames = []string{
	"Rossi", "Russo", "Ferrari", "Esposito", "Bianchi", "Romano", "Colombo",
	"Ricci", "Marino", "Greco", "Bruno", "Gallo", "Conti", "DeLuca", "Costa",
	"Giordano", "Mancini", "Rizzo", "Lombardi", "Moretti",
}

func GenerateRandomFullName() string {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	last := commonLastNames[rand.Intn(len(commonLastNames))]
	return first + " " + last
}

var roles = []domain.Role{
	domain.RoleOperator,
	domain.RoleSupervisor,
	domain.RoleAdministrator,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

func GenerateUsernameFromFullName(fullName string) string {
	username := strings.ToLower(strings.ReplaceAll(fullName, " ", "."))

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var shiftTypes = []domain.ShiftType{
	domain.ShiftMorning8h,
	domain.ShiftAfternoon8h,
	domain.ShiftNight12h,
	domain.ShiftMorning12h,
}

var absenceTypes = []domain.AbsenceType{
	domain.AbsenceVacation,
	domain.AbsenceSickLeave,
	domain.AbsenceRest,
	domain.AbsencePermission,
	domain.AbsenceSuspension,
}

// GenerateRandomAssignment rolls one grid cell: mostly working shifts, some
// absences, some free days (nil).
func GenerateRandomAssignment() domain.Assignment {
	switch roll := rand.Intn(10); {
	case roll < 6:
		return shiftTypes[rand.Intn(len(shiftTypes))]
	case roll < 8:
		return absenceTypes[rand.Intn(len(absenceTypes))]
	default:
		return nil
	}
}

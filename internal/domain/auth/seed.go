package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type SeedUser struct {
	Name       string
	Email      string
	Role       string
	Department string
	Team       string
}

// PredefinedUsers are the portal accounts provisioned on first start.
var PredefinedUsers = []SeedUser{
	{"Lokesh Reddy", "lokeshreddy@showtimeconsulting.in", RoleEmployee, "", ""},
	{"Vinod Kumar P", "vinod.kumar@showtimeconsulting.in", RoleEmployee, "", ""},
	{"Atia Latif", "atia@showtimeconsulting.in", RoleManager, "Soul Centre", "Soul Central"},
	{"Siddharth Gautam", "siddharthag@showtimeconsulting.in", RoleManager, "Soul Centre", "Field Team"},
	{"Gurram Saikiran", "gurram.saikiran@showtimeconsulting.in", RoleManager, "Soul Centre", "Field Team"},
	{"Akhilesh Mishra", "akhilesh@showtimeconsulting.in", RoleManager, "Soul Centre", "Field Team"},
	{"Anant Tiwari", "at@showtimeconsulting.in", RoleManager, "Directors", "Director"},
	{"Alimpan Banerjee", "alimpan@showtimeconsulting.in", RoleManager, "Directors", "Associate Director"},
	{"Himani Sehgal", "himani.sehgal@showtimeconsulting.in", RoleManager, "Directors team", "Directors Team"},
	{"Pawan Beniwal", "pawan.beniwal@showtimeconsulting.in", RoleManager, "Directors team", "Directors Team"},
	{"Aditya Pandit", "aditya.pandit@showtimeconsulting.in", RoleManager, "Directors team", "Directors Team"},
	{"Challa Sravya", "challa.sravya@showtimeconsulting.in", RoleManager, "Directors team", "Directors Team"},
	{"Sabavat Eshwar", "sabavat.eshwar@showtimeconsulting.in", RoleManager, "Directors team", "Directors Team"},
	{"S S Manoharan", "manoharan@showtimeconsulting.in", RoleManager, "Campaign", "Campaign"},
	{"T. Pardhasaradhi", "pardhasaradhi@showtimeconsulting.in", RoleManager, "Data", "Data"},
	{"Aakanksha Tandon", "aakanksha.tandon@showtimeconsulting.in", RoleManager, "Media", "Media"},
	{"P. Srinath Rao", "srinath@showtimeconsulting.in", RoleManager, "Research", "Research"},
	{"Madhunisha", "madhunisha@showtimeconsulting.in", RoleManager, "DMC", "HIVE"},
	{"Apoorva Singh", "apoorva@showtimeconsulting.in", RoleManager, "DMC", "HIVE"},
	{"Keerthana Sampath", "keerthana.sampath@showtimeconsulting.in", RoleManager, "DMC", "Digital Communication"},
	{"Bapan Kumar Chanda", "bapankumarchanda@showtimeconsulting.in", RoleManager, "DMC", "Digital Production"},
	{"Tejaswini Ch", "tejaswini@showtimeconsulting.in", RoleManager, "HR", "HR"},
	{"Nikash Kumar", "nikash.kumar@showtimeconsulting.in", RoleManager, "Admin", "Operations"},
	{"Robbin Sharma", "rs@showtimeconsulting.in", RoleManager, "", ""},
	{"Test Employee", "test@showtimeconsulting.in", RoleEmployee, "Data", "Data"},
}

// SeedUsers creates any missing predefined account with the shared initial
// password. Existing accounts are left alone. An empty password seeds nothing.
func SeedUsers(ctx context.Context, store StoreAPI, users []SeedUser, password string) (int, error) {
	if password == "" {
		return 0, nil
	}
	hash, err := HashPassword(password)
	if err != nil {
		return 0, err
	}
	created := 0
	for _, u := range users {
		if _, err := store.FindUserByEmail(ctx, u.Email); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return created, fmt.Errorf("lookup %s: %w", u.Email, err)
		}
		err := store.CreateUser(ctx, User{
			ID:           uuid.NewString(),
			Name:         u.Name,
			Email:        normalizeEmail(u.Email),
			Role:         u.Role,
			Department:   u.Department,
			Team:         u.Team,
			PasswordHash: hash,
			CreatedAt:    time.Now(),
		})
		if errors.Is(err, ErrEmailTaken) {
			continue
		}
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", u.Email, err)
		}
		created++
	}
	return created, nil
}

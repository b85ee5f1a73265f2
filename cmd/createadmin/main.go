// Command createadmin регистрирует владельца портфолио из терминала,
// минуя HTTP API. Пароль и секретный токен вводятся без эха.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/term"

	"github.com/echobugg/portfolio-api/internal/crypto"
	"github.com/echobugg/portfolio-api/internal/models"
	"github.com/echobugg/portfolio-api/internal/server/storage"
	"github.com/echobugg/portfolio-api/internal/server/storage/sqlite"
	"github.com/echobugg/portfolio-api/internal/validation"
)

func main() {
	dbPath := flag.String("db", "portfolio.db", "path to the sqlite database")
	flag.Parse()

	if err := run(*dbPath); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run(dbPath string) error {
	ctx := context.Background()

	store, err := sqlite.New(ctx, dbPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer store.Close()

	reader := bufio.NewReader(os.Stdin)

	username, err := promptLine(reader, "Username: ")
	if err != nil {
		return err
	}
	username = validation.Normalize(username)
	if err := validation.ValidateUsername(username); err != nil {
		return err
	}

	fullname, err := promptLine(reader, "Full name: ")
	if err != nil {
		return err
	}
	if fullname == "" {
		return errors.New("full name is required")
	}

	email, err := promptLine(reader, "Email: ")
	if err != nil {
		return err
	}
	email = validation.Normalize(email)
	if err := validation.ValidateEmail(email); err != nil {
		return err
	}

	password, err := promptSecret("Password: ")
	if err != nil {
		return err
	}
	if err := validation.ValidatePassword(password); err != nil {
		return err
	}

	secret, err := promptSecret("Secret token: ")
	if err != nil {
		return err
	}
	if secret == "" {
		return errors.New("secret token is required")
	}

	passwordHash, err := crypto.HashPassword(password)
	if err != nil {
		return err
	}
	secretHash, err := crypto.HashPassword(secret)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &models.Admin{
		ID:              uuid.New().String(),
		Username:        username,
		Fullname:        fullname,
		Email:           email,
		PasswordHash:    passwordHash,
		SecretTokenHash: secretHash,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := store.CreateAdmin(ctx, admin); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			return errors.New("username or email already taken")
		}
		return fmt.Errorf("create admin: %w", err)
	}

	fmt.Printf("Admin %q created (id %s)\n", admin.Username, admin.ID)
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptSecret читает значение без эха в терминал
func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read secret: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"

	"shopsphere_back_end/internal/models"
)

type UserService struct {
	db *sql.DB
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// Register crée un compte client. Les mots de passe sont toujours hachés
// avec bcrypt, jamais stockés en clair
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email et mot de passe obligatoires", ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash mot de passe: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, password, role, created_at)
		VALUES (?, ?, ?, ?, NOW())`,
		name, email, string(hashed), models.RoleCustomer,
	)
	if isDuplicateKey(err) {
		return nil, fmt.Errorf("%w: un compte avec cet email existe déjà", ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("création utilisateur: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("id utilisateur: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Authenticate vérifie les identifiants et renvoie l'utilisateur.
// ErrForbidden couvre aussi bien l'email inconnu que le mauvais mot de
// passe : on ne révèle pas lequel des deux a échoué
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, password, role, created_at
		FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.Role, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: identifiants invalides", ErrForbidden)
	}
	if err != nil {
		return nil, fmt.Errorf("lecture utilisateur: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, fmt.Errorf("%w: identifiants invalides", ErrForbidden)
	}
	return &u, nil
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	var phone sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, email, role, phone, created_at
		FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &phone, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: utilisateur %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("lecture utilisateur: %w", err)
	}
	u.Phone = phone.String

	var addr models.Address
	err = s.db.QueryRowContext(ctx, `
		SELECT street, city, postal_code, country
		FROM addresses WHERE user_id = ?`, id,
	).Scan(&addr.Street, &addr.City, &addr.PostalCode, &addr.Country)
	if err == nil {
		u.Address = &addr
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lecture adresse: %w", err)
	}
	return &u, nil
}

// UpdateProfile met à jour les champs de profil et upsert l'adresse
// (zéro-ou-une par utilisateur)
func (s *UserService) UpdateProfile(ctx context.Context, id int64, name, phone string, addr *models.Address) (*models.User, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE users SET name = ?, phone = ? WHERE id = ?`, name, phone, id,
	)
	if err != nil {
		return nil, fmt.Errorf("mise à jour profil: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}

	if addr != nil {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO addresses (user_id, street, city, postal_code, country)
			VALUES (?, ?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE street = VALUES(street), city = VALUES(city),
			                        postal_code = VALUES(postal_code), country = VALUES(country)`,
			id, addr.Street, addr.City, addr.PostalCode, addr.Country,
		)
		if err != nil {
			return nil, fmt.Errorf("mise à jour adresse: %w", err)
		}
	}
	return s.GetByID(ctx, id)
}

// EnsureAdmin crée le compte administrateur au démarrage s'il n'existe pas.
// Sans ADMIN_EMAIL / ADMIN_PASSWORD dans l'environnement, on ne fait rien
func (s *UserService) EnsureAdmin(ctx context.Context) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("⚠️ ADMIN_EMAIL/ADMIN_PASSWORD absents — pas de compte admin créé")
		return nil
	}

	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM users WHERE email = ?`, email,
	).Scan(&one)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("vérification admin: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash mot de passe admin: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, password, role, created_at)
		VALUES ('Administrateur', ?, ?, ?, NOW())`,
		email, string(hashed), models.RoleAdmin,
	)
	if err != nil {
		return fmt.Errorf("création admin: %w", err)
	}
	log.Println("✅ Compte administrateur initialisé :", email)
	return nil
}

// Package seed genera SQL de aprovisionamiento de usuarios a partir de planillas CSV
// exportadas por coordinación (a menudo en ISO-8859-1).
//
// Formato esperado (con cabecera): email,name,role,password,approved
package seed

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jhoicas/Obras-api/internal/domain/entity"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// User fila de la planilla ya validada.
type User struct {
	Email    string
	Name     string
	Role     entity.Role
	Password string
	Approved bool
}

var columns = []string{"email", "name", "role", "password", "approved"}

// ReadUsers lee la planilla. charset admite "utf-8" (por defecto) e "iso-8859-1".
func ReadUsers(r io.Reader, charset string) ([]User, error) {
	switch strings.ToLower(strings.ReplaceAll(charset, "_", "-")) {
	case "", "utf-8", "utf8":
	case "iso-8859-1", "iso8859-1", "latin1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("charset no soportado: %q", charset)
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("leer cabecera: %w", err)
	}
	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var users []User
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		u, err := parseRecord(rec, idx)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		users = append(users, u)
	}
	return users, nil
}

func columnIndex(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, c := range columns {
		if _, ok := idx[c]; !ok {
			return nil, fmt.Errorf("falta la columna %q", c)
		}
	}
	return idx, nil
}

func parseRecord(rec []string, idx map[string]int) (User, error) {
	get := func(col string) string {
		i := idx[col]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	u := User{
		Email:    get("email"),
		Name:     get("name"),
		Role:     entity.Role(strings.ToUpper(get("role"))),
		Password: get("password"),
	}
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return User{}, fmt.Errorf("email inválido %q", u.Email)
	}
	if u.Role == "" {
		u.Role = entity.DefaultRole
	}
	if !u.Role.Valid() {
		return User{}, fmt.Errorf("rol desconocido %q", u.Role)
	}
	if u.Password != "" && utf8.RuneCountInString(u.Password) < 6 {
		return User{}, fmt.Errorf("password de %s con menos de 6 caracteres", u.Email)
	}
	if raw := get("approved"); raw != "" {
		approved, err := parseBool(raw)
		if err != nil {
			return User{}, fmt.Errorf("approved inválido %q", raw)
		}
		u.Approved = approved
	}
	return u, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "si", "sí", "s", "yes", "y", "x":
		return true, nil
	case "no", "n":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// BuildSQL genera los INSERT con hash bcrypt. Usuarios sin password quedan sin aprovisionar
// (password_hash NULL). Los emails ya existentes se ignoran.
func BuildSQL(users []User, cost int) (string, error) {
	var b strings.Builder
	b.WriteString("-- Generado por obrasctl seed-users\n")
	for _, u := range users {
		hash := "NULL"
		if u.Password != "" {
			h, err := bcrypt.GenerateFromPassword([]byte(u.Password), cost)
			if err != nil {
				return "", fmt.Errorf("hash de %s: %w", u.Email, err)
			}
			hash = quote(string(h))
		}
		name := "NULL"
		if u.Name != "" {
			name = quote(u.Name)
		}
		verified := 0
		if u.Approved {
			verified = 1
		}
		fmt.Fprintf(&b,
			"INSERT INTO users (id, email, name, password_hash, role, email_verified) VALUES (%s, %s, %s, %s, %s, %d) ON CONFLICT (email) DO NOTHING;\n",
			quote(uuid.NewString()), quote(u.Email), name, hash, quote(string(u.Role)), verified,
		)
	}
	return b.String(), nil
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

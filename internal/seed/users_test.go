package seed

import (
	"bytes"
	"regexp"
	"strings"
	"testing"

	"github.com/jhoicas/Obras-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestReadUsers_UTF8(t *testing.T) {
	in := "\ufeffEmail,Name,Role,Password,Approved\n" +
		"ana@x.com,Ana,coordinador,secret1,sí\n" +
		"luis@x.com,Luis,,,\n"

	users, err := ReadUsers(strings.NewReader(in), "")

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, User{Email: "ana@x.com", Name: "Ana", Role: entity.RoleCoordinador, Password: "secret1", Approved: true}, users[0])
	assert.Equal(t, User{Email: "luis@x.com", Name: "Luis", Role: entity.RoleVoluntario}, users[1])
}

func TestReadUsers_Latin1(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("email,name,role,password,approved\n")
	buf.Write([]byte("maria@x.com,Mar\xeda Nu\xf1ez,ADMIN,secret1,1\n"))

	users, err := ReadUsers(&buf, "ISO-8859-1")

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "María Nuñez", users[0].Name)
	assert.True(t, users[0].Approved)
}

func TestReadUsers_Errores(t *testing.T) {
	cases := map[string]string{
		"falta columna":  "email,name,role,password\nana@x.com,Ana,ADMIN,secret1\n",
		"email inválido": "email,name,role,password,approved\nana,Ana,ADMIN,secret1,1\n",
		"rol":            "email,name,role,password,approved\nana@x.com,Ana,JEFE,secret1,1\n",
		"password corto": "email,name,role,password,approved\nana@x.com,Ana,ADMIN,abc,1\n",
		"approved":       "email,name,role,password,approved\nana@x.com,Ana,ADMIN,secret1,tal vez\n",
		"vacío":          "",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadUsers(strings.NewReader(in), "utf-8")
			assert.Error(t, err)
		})
	}

	_, err := ReadUsers(strings.NewReader("email\n"), "ebcdic")
	assert.ErrorContains(t, err, "charset")
}

// El largo mínimo se cuenta en caracteres, igual que la validación del login.
func TestReadUsers_PasswordCuentaCaracteres(t *testing.T) {
	header := "email,name,role,password,approved\n"

	_, err := ReadUsers(strings.NewReader(header+"ana@x.com,Ana,ADMIN,ñññ,1\n"), "")
	assert.ErrorContains(t, err, "menos de 6 caracteres")

	users, err := ReadUsers(strings.NewReader(header+"ana@x.com,Ana,ADMIN,ñandú1,1\n"), "")
	require.NoError(t, err)
	assert.Equal(t, "ñandú1", users[0].Password)
}

func TestReadUsers_ErrorIndicaLinea(t *testing.T) {
	in := "email,name,role,password,approved\nana@x.com,Ana,ADMIN,secret1,1\nmal,Mal,ADMIN,secret1,1\n"

	_, err := ReadUsers(strings.NewReader(in), "")

	assert.ErrorContains(t, err, "línea 3")
}

var insertRe = regexp.MustCompile(`VALUES \('([^']+)', '([^']+)', (NULL|'(?:[^']|'')*'), (NULL|'[^']+'), '([A-Z]+)', ([01])\)`)

func TestBuildSQL(t *testing.T) {
	users := []User{
		{Email: "ana@x.com", Name: "Ana O'Neil", Role: entity.RoleCoordinador, Password: "secret1", Approved: true},
		{Email: "luis@x.com", Role: entity.RoleVoluntario},
	}

	sql, err := BuildSQL(users, bcrypt.MinCost)

	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(sql), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "--"))

	m := insertRe.FindStringSubmatch(lines[1])
	require.NotNil(t, m, lines[1])
	assert.Equal(t, "ana@x.com", m[2])
	assert.Equal(t, "'Ana O''Neil'", m[3])
	assert.Equal(t, "COORDINADOR", m[5])
	assert.Equal(t, "1", m[6])
	hash := strings.Trim(m[4], "'")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret1")))
	assert.Contains(t, lines[1], "ON CONFLICT (email) DO NOTHING")

	m = insertRe.FindStringSubmatch(lines[2])
	require.NotNil(t, m, lines[2])
	assert.Equal(t, "NULL", m[3])
	assert.Equal(t, "NULL", m[4])
	assert.Equal(t, "0", m[6])
}

func TestQuote(t *testing.T) {
	assert.Equal(t, "'a''b'", quote("a'b"))
	assert.Equal(t, "''", quote(""))
}

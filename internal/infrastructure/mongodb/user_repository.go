package mongodb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jhoicas/Obras-api/internal/domain/entity"
	"github.com/jhoicas/Obras-api/internal/domain/repository"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var _ repository.CredentialStore = (*UserRepo)(nil)

// Finder es lo que el repositorio necesita de *mongo.Collection.
type Finder interface {
	FindOne(ctx context.Context, filter any, opts ...options.Lister[options.FindOneOptions]) *mongo.SingleResult
}

var _ Finder = (*mongo.Collection)(nil)

// userDocument forma del documento de usuario. _id y emailVerified se leen crudos:
// _id puede ser ObjectID o string y emailVerified puede ser bool, número o fecha.
type userDocument struct {
	ID            bson.RawValue `bson:"_id"`
	Name          *string       `bson:"name"`
	Email         string        `bson:"email"`
	PasswordHash  string        `bson:"passwordHash"`
	Role          string        `bson:"role"`
	EmailVerified bson.RawValue `bson:"emailVerified"`
	Settings      bson.Raw      `bson:"settings"`
}

// UserRepo implementación del CredentialStore sobre MongoDB (colección users).
type UserRepo struct {
	coll    Finder
	timeout time.Duration
}

// NewUserRepository construye el adaptador. timeout <= 0 deja el límite al contexto del llamador.
func NewUserRepository(coll Finder, timeout time.Duration) *UserRepo {
	return &UserRepo{coll: coll, timeout: timeout}
}

// FindUserByEmail obtiene el registro de credenciales. (nil, nil) si no existe.
func (r *UserRepo) FindUserByEmail(ctx context.Context, email string) (*entity.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	u, err := doc.toUser()
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// FindRoleProjection relee solo rol, aprobación, nombre y settings. (nil, nil) si no existe.
func (r *UserRepo) FindRoleProjection(ctx context.Context, email string) (*entity.RoleProjection, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	opts := options.FindOne().SetProjection(bson.D{
		{Key: "role", Value: 1},
		{Key: "emailVerified", Value: 1},
		{Key: "name", Value: 1},
		{Key: "settings", Value: 1},
	})
	var doc userDocument
	if err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("get role projection: %w", err)
	}
	p, err := doc.toProjection()
	if err != nil {
		return nil, fmt.Errorf("get role projection: %w", err)
	}
	return p, nil
}

func (r *UserRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

func (d userDocument) toUser() (*entity.User, error) {
	settings, err := decodeSettings(d.Settings)
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		ID:           idString(d.ID),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Role:         entity.Role(d.Role),
		Settings:     settings,
	}
	if d.Name != nil {
		u.Name = *d.Name
	}
	if truthy(d.EmailVerified) {
		u.EmailVerified = 1
	}
	return u, nil
}

func (d userDocument) toProjection() (*entity.RoleProjection, error) {
	settings, err := decodeSettings(d.Settings)
	if err != nil {
		return nil, err
	}
	approved := truthy(d.EmailVerified)
	return &entity.RoleProjection{
		Role:     entity.Role(d.Role),
		Approved: &approved,
		Name:     d.Name,
		Settings: settings,
	}, nil
}

func idString(v bson.RawValue) string {
	switch v.Type {
	case bson.TypeObjectID:
		return v.ObjectID().Hex()
	case bson.TypeString:
		return v.StringValue()
	case 0:
		return ""
	default:
		return v.String()
	}
}

// truthy replica la conversión a booleano del documento: null, false, 0, NaN y "" son falsos;
// fechas, objetos y arrays son verdaderos.
func truthy(v bson.RawValue) bool {
	switch v.Type {
	case 0, bson.TypeNull, bson.TypeUndefined:
		return false
	case bson.TypeBoolean:
		return v.Boolean()
	case bson.TypeInt32:
		return v.Int32() != 0
	case bson.TypeInt64:
		return v.Int64() != 0
	case bson.TypeDouble:
		f := v.Double()
		return f != 0 && !math.IsNaN(f)
	case bson.TypeString:
		return v.StringValue() != ""
	default:
		return true
	}
}

// decodeSettings convierte el subdocumento settings a JSON plano (mapas anidados, no bson.D).
func decodeSettings(raw bson.Raw) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ext, err := bson.MarshalExtJSON(raw, false, false)
	if err != nil {
		return nil, fmt.Errorf("decodificar settings: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(ext, &m); err != nil {
		return nil, fmt.Errorf("decodificar settings: %w", err)
	}
	return m, nil
}

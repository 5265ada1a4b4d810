package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/puntoventa/kardex-api/internal/application/auth"
	"github.com/puntoventa/kardex-api/internal/application/dto"
	"github.com/puntoventa/kardex-api/internal/domain/entity"
	"github.com/puntoventa/kardex-api/pkg/logger"
)

// AuthHandler maneja registro y login.
type AuthHandler struct {
	uc  *auth.AuthUseCase
	log *logger.Logger
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase, log *logger.Logger) *AuthHandler {
	return &AuthHandler{uc: uc, log: log}
}

// Register da de alta un usuario por la ruta pública. El rol del body se
// descarta: el alta pública siempre crea un vendedor; los roles privilegiados
// se conceden por POST /api/usuarios.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return respondBadBody(c)
	}
	in.Role = entity.RoleVendedor
	user, err := h.uc.RegisterUser(in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respondCreated(c, user, "Usuario registrado correctamente")
}

// CreateUser alta administrada de usuarios: respeta el rol del body. La ruta
// exige rol admin.
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return respondBadBody(c)
	}
	user, err := h.uc.RegisterUser(in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respondCreated(c, user, "Usuario registrado correctamente")
}

// Login autentica y devuelve el token JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return respondBadBody(c)
	}
	result, err := h.uc.Login(in)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return respondOK(c, result, "Sesión iniciada correctamente")
}

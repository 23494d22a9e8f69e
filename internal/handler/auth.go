package handler

import (
	"net/http"

	"github.com/Yodaime/cash-flow-keeper/internal/dto"
	"github.com/Yodaime/cash-flow-keeper/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary Login de usuário
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.LoginRequest true "Credenciais"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh godoc
// @Summary Renova o par de tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.RefreshRequest true "Refresh token"
// @Success 200 {object} dto.LoginResponse
// @Failure 401 {object} apierror.APIError
// @Router /v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Me godoc
// @Summary Perfil do usuário autenticado
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.PerfilResponse
// @Router /v1/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	p := ator(c)
	resp := dto.PerfilResponse{
		ID:    p.UsuarioID.String(),
		Nome:  p.Nome,
		Email: p.Email,
		Papel: p.Papel,
	}
	if p.OrganizacaoID != nil {
		org := p.OrganizacaoID.String()
		resp.OrganizacaoID = &org
	}
	c.JSON(http.StatusOK, resp)
}

// ── Usuários Handler ──────────────────────────────────────────────────────────

type UsuariosHandler struct{ svc service.AuthService }

func NewUsuariosHandler(svc service.AuthService) *UsuariosHandler {
	return &UsuariosHandler{svc: svc}
}

// Criar godoc
// @Summary Cria usuário
// @Tags usuarios
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body dto.CriarUsuarioRequest true "Usuário"
// @Success 201 {object} dto.UsuarioResponse
// @Failure 403 {object} apierror.APIError
// @Failure 409 {object} apierror.APIError
// @Router /v1/usuarios [post]
func (h *UsuariosHandler) Criar(c *gin.Context) {
	var req dto.CriarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CriarUsuario(c.Request.Context(), ator(c), req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Lista usuários da organização
// @Tags usuarios
// @Security BearerAuth
// @Produce json
// @Success 200 {array} dto.UsuarioResponse
// @Router /v1/usuarios [get]
func (h *UsuariosHandler) Listar(c *gin.Context) {
	resp, err := h.svc.ListarUsuarios(c.Request.Context(), ator(c))
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Atualizar godoc
// @Summary Atualiza nome, papel, organização ou loja de um usuário
// @Tags usuarios
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "ID do usuário"
// @Param body body dto.AtualizarUsuarioRequest true "Campos"
// @Success 200 {object} dto.UsuarioResponse
// @Router /v1/usuarios/{id} [put]
func (h *UsuariosHandler) Atualizar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.AtualizarUsuarioRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AtualizarUsuario(c.Request.Context(), ator(c), id, req)
	if err != nil {
		responderErro(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RedefinirSenha godoc
// @Summary Redefine a senha de um usuário
// @Tags usuarios
// @Security BearerAuth
// @Accept json
// @Param id path string true "ID do usuário"
// @Param body body dto.RedefinirSenhaRequest true "Nova senha"
// @Success 204
// @Router /v1/usuarios/{id}/senha [post]
func (h *UsuariosHandler) RedefinirSenha(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req dto.RedefinirSenhaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.RedefinirSenha(c.Request.Context(), ator(c), id, req); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Desativar godoc
// @Summary Desativa um usuário
// @Tags usuarios
// @Security BearerAuth
// @Param id path string true "ID do usuário"
// @Success 204
// @Router /v1/usuarios/{id} [delete]
func (h *UsuariosHandler) Desativar(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := h.svc.DesativarUsuario(c.Request.Context(), ator(c), id); err != nil {
		responderErro(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

package router

import (
	"time"

	"github.com/Yodaime/cash-flow-keeper/internal/cache"
	"github.com/Yodaime/cash-flow-keeper/internal/conciliacao"
	"github.com/Yodaime/cash-flow-keeper/internal/config"
	"github.com/Yodaime/cash-flow-keeper/internal/handler"
	"github.com/Yodaime/cash-flow-keeper/internal/infra"
	"github.com/Yodaime/cash-flow-keeper/internal/middleware"
	"github.com/Yodaime/cash-flow-keeper/internal/permissao"
	"github.com/Yodaime/cash-flow-keeper/internal/repository"
	"github.com/Yodaime/cash-flow-keeper/internal/service"
	"github.com/Yodaime/cash-flow-keeper/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	tolerancia, err := cfg.Tolerancia()
	if err != nil {
		return nil, err
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	motor := conciliacao.NewMotor(tolerancia)
	perfilCache := cache.NewRedisPerfilCache(rdb, cfg.PerfilCacheTTL())
	analiseClient := infra.NewAnaliseClient(cfg.AnaliseURL, cfg.AnaliseAPIKey, cfg.AnaliseTimeout(), nil)

	// Worker dispatcher, injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	lojaRepo := repository.NewLojaRepository(db)
	fechamentoRepo := repository.NewFechamentoRepository(db)
	produtoRepo := repository.NewProdutoRepository(db)
	organizacaoRepo := repository.NewOrganizacaoRepository(db)
	ocorrenciaRepo := repository.NewOcorrenciaRepository(db)
	solicitacaoRepo := repository.NewSolicitacaoRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	perfis := service.NewPerfilResolver(perfilCache, usuarioRepo)
	authSvc := service.NewAuthService(usuarioRepo, lojaRepo, perfis, cfg)
	fechamentoSvc := service.NewFechamentoService(fechamentoRepo, lojaRepo, motor, dispatcher, cfg.AlertaEmail)
	lojaSvc := service.NewLojaService(lojaRepo)
	produtoSvc := service.NewProdutoService(produtoRepo, lojaRepo)
	organizacaoSvc := service.NewOrganizacaoService(organizacaoRepo)
	ocorrenciaSvc := service.NewOcorrenciaService(ocorrenciaRepo, lojaRepo)
	solicitacaoSvc := service.NewSolicitacaoService(solicitacaoRepo, dispatcher)
	analiseSvc := service.NewAnaliseService(fechamentoRepo, analiseClient)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	fechamentosH := handler.NewFechamentosHandler(fechamentoSvc)
	lojasH := handler.NewLojasHandler(lojaSvc)
	produtosH := handler.NewProdutosHandler(produtoSvc)
	organizacoesH := handler.NewOrganizacoesHandler(organizacaoSvc)
	ocorrenciasH := handler.NewOcorrenciasHandler(ocorrenciaSvc)
	solicitacoesH := handler.NewSolicitacoesHandler(solicitacaoSvc)
	analiseH := handler.NewAnaliseHandler(analiseSvc)
	filaH := handler.NewFilaHandler(rdb)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}
	r.POST("/v1/solicitacoes", middleware.LoginRateLimiter(), solicitacoesH.Criar)

	// Protected routes. Services re-check every permission; RequireRole only
	// rejects early.
	gerente := middleware.RequireRole(permissao.Gerente)
	admin := middleware.RequireRole(permissao.Administrador)
	super := middleware.RequireRole(permissao.SuperAdmin)

	v1 := r.Group("/v1", middleware.JWTAuth(cfg.JWTSecret), middleware.CarregarPerfil(perfis))
	{
		v1.GET("/me", authH.Me)

		fech := v1.Group("/fechamentos")
		{
			fech.GET("", fechamentosH.Listar)
			fech.POST("", fechamentosH.Criar)
			fech.GET("/resumo", fechamentosH.Resumo)
			fech.GET("/evolucao", fechamentosH.Evolucao)
			fech.GET("/exportar", fechamentosH.Exportar)
			fech.GET("/modelo", fechamentosH.Modelo)
			fech.POST("/importar", gerente, fechamentosH.Importar)
			fech.GET("/:id", fechamentosH.Obter)
			fech.PUT("/:id", gerente, fechamentosH.Atualizar)
			fech.POST("/:id/aprovar", gerente, fechamentosH.Aprovar)
			fech.DELETE("/:id", admin, fechamentosH.Excluir)
		}

		lojas := v1.Group("/lojas")
		{
			lojas.GET("", lojasH.Listar)
			lojas.GET("/:id", lojasH.Obter)
			lojas.POST("", admin, lojasH.Criar)
			lojas.PUT("/:id", admin, lojasH.Atualizar)
			lojas.DELETE("/:id", admin, lojasH.Excluir)
		}

		prods := v1.Group("/produtos", admin)
		{
			prods.GET("", produtosH.Listar)
			prods.POST("", produtosH.Criar)
			prods.GET("/exportar", produtosH.Exportar)
			prods.GET("/modelo", produtosH.Modelo)
			prods.POST("/importar", produtosH.Importar)
			prods.PUT("/:id", produtosH.Atualizar)
			prods.DELETE("/:id", produtosH.Excluir)
		}

		orgs := v1.Group("/organizacoes", super)
		{
			orgs.GET("", organizacoesH.Listar)
			orgs.POST("", organizacoesH.Criar)
			orgs.PUT("/:id", organizacoesH.Atualizar)
			orgs.DELETE("/:id", organizacoesH.Excluir)
		}

		usuarios := v1.Group("/usuarios")
		{
			usuarios.GET("", gerente, usuariosH.Listar)
			usuarios.PUT("/:id", gerente, usuariosH.Atualizar)
			usuarios.POST("", admin, usuariosH.Criar)
			usuarios.POST("/:id/senha", admin, usuariosH.RedefinirSenha)
			usuarios.DELETE("/:id", admin, usuariosH.Desativar)
		}

		ocorrencias := v1.Group("/ocorrencias")
		{
			ocorrencias.POST("", ocorrenciasH.Criar)
			ocorrencias.GET("", gerente, ocorrenciasH.Listar)
			ocorrencias.PATCH("/:id", gerente, ocorrenciasH.Atualizar)
			ocorrencias.DELETE("/:id", admin, ocorrenciasH.Excluir)
		}

		solicitacoes := v1.Group("/solicitacoes", admin)
		{
			solicitacoes.GET("", solicitacoesH.Listar)
			solicitacoes.GET("/pendentes", solicitacoesH.Pendentes)
			solicitacoes.PATCH("/:id", solicitacoesH.Revisar)
			solicitacoes.DELETE("/:id", solicitacoesH.Excluir)
		}

		v1.POST("/analise", gerente, analiseH.Analisar)

		fila := v1.Group("/fila", super)
		{
			fila.GET("/falhas", filaH.Falhas)
			fila.POST("/falhas/reenviar", filaH.Reenviar)
		}
	}

	// Swagger UI, only outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r, nil
}

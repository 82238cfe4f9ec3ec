package controller

import (
	"fmt"
	"os"
	"path/filepath"

	"ai-studyprep-be/internal/dto"
	"ai-studyprep-be/internal/pkg/serverutils"
	"ai-studyprep-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	CreateFromDocument(ctx *fiber.Ctx) error
	CreateFromTopic(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Progress(ctx *fiber.Ctx) error
	Questions(ctx *fiber.Ctx) error
	Mnemonics(ctx *fiber.Ctx) error
	CheatSheets(ctx *fiber.Ctx) error
	Note(ctx *fiber.Ctx) error
	MockTest(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("upload", c.CreateFromDocument)
	h.Post("topic", c.CreateFromTopic)
	h.Get("", c.GetAll)
	h.Get(":id", c.Show)
	h.Get(":id/progress", c.Progress)
	h.Get(":id/questions", c.Questions)
	h.Get(":id/mnemonics", c.Mnemonics)
	h.Get(":id/cheat-sheets", c.CheatSheets)
	h.Get(":id/note", c.Note)
	h.Get(":id/mock-test", c.MockTest)
}

func (c *sessionController) CreateFromDocument(ctx *fiber.Ctx) error {
	userId := currentUser(ctx)

	var req dto.CreateDocumentSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Missing document file")
	}

	// Spool the upload to a temp file; the service moves it into storage.
	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("upload-%s.pdf", uuid.NewString()))
	if err := ctx.SaveFile(fileHeader, tmpPath); err != nil {
		return err
	}
	defer os.Remove(tmpPath)

	res, err := c.sessionService.CreateFromDocument(ctx.Context(), userId, &req, tmpPath, fileHeader.Filename)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) CreateFromTopic(ctx *fiber.Ctx) error {
	userId := currentUser(ctx)

	var req dto.CreateTopicSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.CreateFromTopic(ctx.Context(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create session", res))
}

func (c *sessionController) GetAll(ctx *fiber.Ctx) error {
	userId := currentUser(ctx)

	res, err := c.sessionService.GetAll(ctx.Context(), userId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get sessions", res))
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	userId := currentUser(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.Show(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session", res))
}

func (c *sessionController) Progress(ctx *fiber.Ctx) error {
	userId := currentUser(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.Progress(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get progress", res))
}

func (c *sessionController) Questions(ctx *fiber.Ctx) error {
	userId := currentUser(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))
	difficulty := ctx.Query("difficulty")

	res, err := c.sessionService.Questions(ctx.Context(), userId, id, difficulty)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get questions", res))
}

func (c *sessionController) Mnemonics(ctx *fiber.Ctx) error {
	userId := currentUser(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.Mnemonics(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get mnemonics", res))
}

func (c *sessionController) CheatSheets(ctx *fiber.Ctx) error {
	userId := currentUser(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.CheatSheets(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get cheat sheets", res))
}

func (c *sessionController) Note(ctx *fiber.Ctx) error {
	userId := currentUser(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.Note(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get note", res))
}

func (c *sessionController) MockTest(ctx *fiber.Ctx) error {
	userId := currentUser(ctx)
	id, _ := uuid.Parse(ctx.Params("id"))

	res, err := c.sessionService.MockTest(ctx.Context(), userId, id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get mock test", res))
}

func currentUser(ctx *fiber.Ctx) uuid.UUID {
	userIdStr, _ := ctx.Locals("user_id").(string)
	userId, _ := uuid.Parse(userIdStr)
	return userId
}

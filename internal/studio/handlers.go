package studio

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/Rana718/acctgen/internal/export"
	"github.com/Rana718/acctgen/internal/generator"
	"github.com/Rana718/acctgen/internal/grid"
)

type gridState struct {
	Teachers []grid.AccountRow `json:"teachers"`
	Students []grid.AccountRow `json:"students"`
}

func snapshot(ed *grid.Editor) gridState {
	t, st := ed.Snapshot()
	return gridState{Teachers: t, Students: st}
}

type columnView struct {
	Key   grid.Column
	Label string
}

type roleView struct {
	Role  grid.Role
	Label string
}

func (s *Server) handleIndex(c *fiber.Ctx) error {
	columns := make([]columnView, len(grid.Columns))
	for i, col := range grid.Columns {
		columns[i] = columnView{Key: col, Label: grid.ColumnLabels[col]}
	}
	roles := make([]roleView, len(grid.Roles))
	for i, r := range grid.Roles {
		roles[i] = roleView{Role: r, Label: r.Label()}
	}
	return c.Render("templates/index", fiber.Map{
		"Title":    "アカウントSQL生成ツール",
		"PrefCode": s.opts.PrefCode,
		"CityCode": s.opts.CityCode,
		"Columns":  columns,
		"Roles":    roles,
	})
}

func (s *Server) handleGetGrid(c *fiber.Ctx) error {
	return JSON(c, snapshot(currentSession(c).editor))
}

func (s *Server) handleAddRow(c *fiber.Ctx) error {
	ed := currentSession(c).editor
	row, err := ed.AddRow(grid.Role(c.Params("role")))
	if err != nil {
		return gridError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(Response{Success: true, Data: fiber.Map{
		"row":  row,
		"grid": snapshot(ed),
	}})
}

func (s *Server) handleDeleteRow(c *fiber.Ctx) error {
	ed := currentSession(c).editor
	removed, err := ed.DeleteRow(grid.Role(c.Params("role")), c.Params("id"))
	if err != nil {
		return gridError(c, err)
	}
	return JSON(c, fiber.Map{"removed": removed, "grid": snapshot(ed)})
}

type editCellRequest struct {
	Column    grid.Column `json:"column"`
	Value     string      `json:"value"`
	Composing bool        `json:"composing"`
}

func (s *Server) handleEditCell(c *fiber.Ctx) error {
	var req editCellRequest
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "Invalid request")
	}

	ed := currentSession(c).editor
	if req.Composing && !ed.Composing() {
		ed.CompositionStart()
	}
	restore, err := ed.EditCell(grid.Role(c.Params("role")), c.Params("id"), req.Column, req.Value)
	if err != nil {
		return gridError(c, err)
	}
	return JSON(c, fiber.Map{"restoreCaret": restore})
}

func (s *Server) handleReset(c *fiber.Ctx) error {
	ed := currentSession(c).editor
	if err := ed.Reset(grid.Role(c.Params("role"))); err != nil {
		return gridError(c, err)
	}
	return JSON(c, snapshot(ed))
}

func (s *Server) handleFocus(c *fiber.Ctx) error {
	var cell grid.Cell
	if err := c.BodyParser(&cell); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "Invalid request")
	}
	if err := currentSession(c).editor.Focus(grid.Role(c.Params("role")), cell); err != nil {
		return gridError(c, err)
	}
	return JSONMessage(c, "focused")
}

func (s *Server) handleBlur(c *fiber.Ctx) error {
	role := grid.Role(c.Params("role"))
	if !role.Valid() {
		return gridError(c, grid.ErrUnknownRole)
	}
	currentSession(c).editor.Blur(role)
	return JSONMessage(c, "blurred")
}

type compositionRequest struct {
	Event  string      `json:"event"`
	Role   grid.Role   `json:"role"`
	ID     string      `json:"id"`
	Column grid.Column `json:"column"`
	Value  string      `json:"value"`
	Key    string      `json:"key"`
}

func (s *Server) handleComposition(c *fiber.Ctx) error {
	var req compositionRequest
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "Invalid request")
	}

	ed := currentSession(c).editor
	switch req.Event {
	case "start":
		ed.CompositionStart()
	case "end":
		restore, err := ed.CompositionEnd(req.Role, req.ID, req.Column, req.Value)
		if err != nil {
			return gridError(c, err)
		}
		return JSON(c, fiber.Map{"composing": false, "restoreCaret": restore})
	case "key":
		ed.KeyDown(req.Key)
	default:
		return JSONError(c, fiber.StatusBadRequest, "unknown composition event: "+req.Event)
	}
	return JSON(c, fiber.Map{"composing": ed.Composing()})
}

type pasteRequest struct {
	Text string `json:"text"`
}

func (s *Server) handlePaste(c *fiber.Ctx) error {
	var req pasteRequest
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "Invalid request")
	}

	ed := currentSession(c).editor
	res := ed.Paste(req.Text)
	if res.Handled && res.Rows > 0 {
		s.metrics.Paste(string(res.Role), res.Rows)
	}
	return JSON(c, fiber.Map{"paste": res, "grid": snapshot(ed)})
}

type generateRequest struct {
	OrganizationName string `json:"organizationName"`
	PrefCode         string `json:"prefCode"`
	MunicipalityCode string `json:"municipalityCode"`
	StartDate        string `json:"startDate"`
	EndDate          string `json:"endDate"`
}

type downloadLinks struct {
	Users   string `json:"users"`
	Members string `json:"members"`
}

type generateResponse struct {
	generator.Result
	Files downloadLinks `json:"files"`
}

func (s *Server) handleGenerate(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return JSONError(c, fiber.StatusBadRequest, "Invalid request")
	}

	sess := currentSession(c)
	teachers, students := sess.editor.Snapshot()

	// Generation runs to completion even if the browser goes away.
	ctx := context.WithoutCancel(c.UserContext())
	res, err := s.generator.Generate(ctx, generator.Request{
		OrganizationName: req.OrganizationName,
		PrefCode:         req.PrefCode,
		MunicipalityCode: req.MunicipalityCode,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		Teachers:         teachers,
		Students:         students,
	})
	if err != nil {
		return JSONError(c, fiber.StatusInternalServerError, generator.UserMessage(err))
	}

	sess.setResult(res)
	return JSON(c, generateResponse{
		Result: res,
		Files: downloadLinks{
			Users:   export.FileName(res.OrganizationName, export.KindUsers),
			Members: export.FileName(res.OrganizationName, export.KindMembers),
		},
	})
}

func (s *Server) handleDownload(c *fiber.Ctx) error {
	kind, err := export.ParseKind(c.Params("kind"))
	if err != nil {
		return JSONError(c, fiber.StatusBadRequest, err.Error())
	}

	res, ok := currentSession(c).result()
	if !ok {
		return JSONError(c, fiber.StatusNotFound, "no generated SQL yet")
	}
	content, err := export.Content(res, kind)
	if err != nil {
		return JSONError(c, fiber.StatusBadRequest, err.Error())
	}
	if content == "" {
		return JSONError(c, fiber.StatusNotFound, "nothing to download")
	}

	c.Set(fiber.HeaderContentType, "application/sql; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, export.ContentDisposition(export.FileName(res.OrganizationName, kind)))
	return c.SendString(content)
}

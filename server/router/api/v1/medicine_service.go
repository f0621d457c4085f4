package v1

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/shortuuid/v4"

	"github.com/usehealthifier/healthifier/server/middleware"
	"github.com/usehealthifier/healthifier/store"
)

type CreateMedicineRequest struct {
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Usage  string `json:"usage"`
}

type MedicineResponse struct {
	UID    string `json:"uid"`
	Name   string `json:"name"`
	Dosage string `json:"dosage"`
	Hour   int    `json:"hour"`
	Minute int    `json:"minute"`
	Usage  string `json:"usage"`
}

func convertMedicineResponse(medicine *store.Medicine) *MedicineResponse {
	return &MedicineResponse{
		UID:    medicine.UID,
		Name:   medicine.Name,
		Dosage: medicine.Dosage,
		Hour:   medicine.Hour,
		Minute: medicine.Minute,
		Usage:  medicine.Usage,
	}
}

func (s *APIV1Service) ListMedicines(c echo.Context) error {
	ctx := c.Request().Context()
	claims := middleware.UserClaimsFrom(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	medicines, err := s.Store.ListMedicines(ctx, &store.FindMedicine{UserUID: claims.Subject})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to list medicines").SetInternal(err)
	}
	response := make([]*MedicineResponse, 0, len(medicines))
	for _, medicine := range medicines {
		response = append(response, convertMedicineResponse(medicine))
	}
	return c.JSON(http.StatusOK, response)
}

func (s *APIV1Service) CreateMedicine(c echo.Context) error {
	ctx := c.Request().Context()
	claims := middleware.UserClaimsFrom(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	req := &CreateMedicineRequest{}
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed medicine request").SetInternal(err)
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "medicine name is required")
	}
	if req.Hour < 0 || req.Hour > 23 || req.Minute < 0 || req.Minute > 59 {
		return echo.NewHTTPError(http.StatusBadRequest, "schedule time is out of range")
	}

	medicine, err := s.Store.CreateMedicine(ctx, &store.Medicine{
		UID:     shortuuid.New(),
		UserUID: claims.Subject,
		Name:    req.Name,
		Dosage:  req.Dosage,
		Hour:    req.Hour,
		Minute:  req.Minute,
		Usage:   req.Usage,
	})
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to create medicine").SetInternal(err)
	}
	return c.JSON(http.StatusCreated, convertMedicineResponse(medicine))
}

func (s *APIV1Service) DeleteMedicine(c echo.Context) error {
	ctx := c.Request().Context()
	claims := middleware.UserClaimsFrom(c)
	if claims == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing identity")
	}
	if err := s.Store.DeleteMedicine(ctx, &store.DeleteMedicine{
		UserUID: claims.Subject,
		UID:     c.Param("uid"),
	}); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to delete medicine").SetInternal(err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"deleted": true})
}

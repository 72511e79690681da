package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/common"
	"github.com/ecmobridge1-prog/Ecmo-Bridge-2.0/internal/patient"
)

type createPatientReq struct {
	Name        string `json:"name" binding:"required"`
	SpecialCare string `json:"special_care"`
	Type        string `json:"type"`
	// pointers distinguish "no coordinates, geocode the address" from an
	// explicit 0,0
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
	Address   string   `json:"address"`

	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
	DOB        string `json:"dob"`
	MRN        string `json:"mrn"`
	Insurance  string `json:"insurance"`

	Weight          float64 `json:"weight"`
	BloodPressure   string  `json:"blood_pressure"`
	Pulse           int     `json:"pulse"`
	Temperature     float64 `json:"temperature"`
	RespirationRate int     `json:"respiration_rate"`
	PulseOximetry   int     `json:"pulse_oximetry"`

	FailureType string `json:"failure_type"`
	Notes       string `json:"notes"`
}

func (h *Handler) CreatePatient(c *gin.Context) {
	uid, okk := userIDFromContext(c)
	if !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	var req createPatientReq
	if err := c.ShouldBindJSON(&req); err != nil {
		common.Fail(c, http.StatusBadRequest, 10001, "invalid json")
		return
	}

	p, err := h.PatientSvc.Create(c.Request.Context(), uid, patient.CreateInput{
		Name:        req.Name,
		SpecialCare: req.SpecialCare,
		Type:        req.Type,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Address:     req.Address,

		FirstName:  req.FirstName,
		MiddleName: req.MiddleName,
		LastName:   req.LastName,
		DOB:        req.DOB,
		MRN:        req.MRN,
		Insurance:  req.Insurance,

		Weight:          req.Weight,
		BloodPressure:   req.BloodPressure,
		Pulse:           req.Pulse,
		Temperature:     req.Temperature,
		RespirationRate: req.RespirationRate,
		PulseOximetry:   req.PulseOximetry,

		FailureType: req.FailureType,
		Notes:       req.Notes,
	})
	if err != nil {
		if errors.Is(err, patient.ErrValidation) {
			common.Fail(c, http.StatusBadRequest, 10002, "missing required patient fields")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to create patient")
		return
	}
	common.OK(c, p)
}

func (h *Handler) ListPatients(c *gin.Context) {
	if _, okk := userIDFromContext(c); !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}
	ps, err := h.PatientSvc.ListAll(c.Request.Context())
	if err != nil {
		common.Fail(c, http.StatusInternalServerError, 50002, "failed to list patients")
		return
	}
	common.OK(c, gin.H{"patients": ps})
}

// DeletePatient expects the confirmation to have happened client-side; the
// delete cascades over the patient's notifications first.
func (h *Handler) DeletePatient(c *gin.Context) {
	if _, okk := userIDFromContext(c); !okk {
		common.Fail(c, http.StatusUnauthorized, 40101, "unauthorized")
		return
	}

	p, err := h.PatientSvc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			common.Fail(c, http.StatusNotFound, 40407, "patient not found")
			return
		}
		common.Fail(c, http.StatusInternalServerError, 50001, "failed to delete patient")
		return
	}
	common.OK(c, p)
}

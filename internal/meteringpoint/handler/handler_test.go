package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"datahub/internal/meteringpoint/domain/catalog"
	"datahub/internal/meteringpoint/domain/masterdata"
	"datahub/internal/meteringpoint/domain/meteringpoint"
	"datahub/internal/meteringpoint/domain/rules"
	"datahub/internal/meteringpoint/domain/shared"
	"datahub/internal/meteringpoint/handler/mocks"
	"datahub/internal/platform/ratelimit"
	"datahub/internal/meteringpoint/models"
	"datahub/internal/meteringpoint/service"
	"datahub/internal/platform/middleware"
	id "datahub/pkg/domain"
	dErrors "datahub/pkg/domain-errors"
	"datahub/pkg/testutil"
)

const (
	gsrn      = "571234567891234568"
	createdOn = "2024-01-01T23:00:00Z"
)

type stubValidator struct{ role string }

func (v stubValidator) ValidateToken(string) (*middleware.JWTClaims, error) {
	return &middleware.JWTClaims{ActorID: "5790000000005", ActorRole: v.role}, nil
}

type HandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *HandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func newTestHandler(t *testing.T, opts ...Option) (http.Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	h := New(mockService, logger, nil, stubValidator{role: "DDM"}, opts...)
	r := chi.NewRouter()
	h.Register(r)
	return r, mockService
}

func consumption(t *testing.T) *meteringpoint.MeteringPoint {
	t.Helper()
	mp, err := meteringpoint.Restore(meteringpoint.Snapshot{
		ID:             id.NewMeteringPointID(),
		GsrnNumber:     gsrn,
		Type:           catalog.TypeConsumption,
		GridAreaLinkID: id.GridAreaLinkID(uuid.New()),
		MasterData: masterdata.Input{
			StreetName:         masterdata.Str("Vestergade"),
			PostCode:           masterdata.Str("8000"),
			City:               masterdata.Str("Aarhus C"),
			CountryCode:        masterdata.Str("DK"),
			Capacity:           masterdata.Str("10.5"),
			DisconnectionType:  masterdata.Str("Manual"),
			SettlementMethod:   masterdata.Str("Flex"),
			NetSettlementGroup: masterdata.Str("Zero"),
			MeteringMethod:     masterdata.Str("Physical"),
			MeterID:            masterdata.Str("M1"),
			ProductType:        masterdata.Str("EnergyActive"),
			UnitType:           masterdata.Str("KWh"),
			ReadingOccurrence:  masterdata.Str("Hourly"),
			EffectiveDate:      masterdata.Str(createdOn),
		},
		PhysicalState:    catalog.StateNew,
		StateEffectiveAt: shared.MustEffectiveDate(createdOn).Time(),
		Version:          1,
	})
	if err != nil {
		t.Fatalf("restore fixture: %v", err)
	}
	return mp
}

func (s *HandlerSuite) jsonRequest(method, target string, body any) *http.Request {
	return testutil.WithBearer(testutil.NewJSONRequest(s.T(), method, target, body), "test-token")
}

func (s *HandlerSuite) serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	return testutil.DoRequest(h, req)
}

func (s *HandlerSuite) TestCreate() {
	s.Run("201 with the created point and its event", func() {
		h, svc := newTestHandler(s.T())
		mp := consumption(s.T())
		svc.EXPECT().CreateMeteringPoint(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *models.CreateMeteringPointRequest) (*service.Result, error) {
				s.Equal(gsrn, req.GsrnNumber)
				s.Equal("E17", req.Type)
				s.Equal("Aarhus C", *req.MasterData.City)
				return &service.Result{
					MeteringPoint: mp,
					Events:        []meteringpoint.Event{meteringpoint.MeteringPointCreated{}},
				}, nil
			})

		rec := s.serve(h, s.jsonRequest(http.MethodPost, "/metering-points", map[string]any{
			"gsrn_number":    gsrn,
			"type":           "E17",
			"grid_area_code": "870",
			"master_data":    map[string]any{"city": "Aarhus C"},
		}))

		s.Equal(http.StatusCreated, rec.Code)
		var resp models.CommandResponse
		testutil.DecodeBody(s.T(), rec, &resp)
		s.Equal(gsrn, resp.MeteringPoint.GsrnNumber)
		s.Equal("Consumption", resp.MeteringPoint.Type)
		s.Equal([]string{meteringpoint.EventMeteringPointCreated}, resp.Events)
	})

	s.Run("422 lists every broken rule", func() {
		h, svc := newTestHandler(s.T())
		svc.EXPECT().CreateMeteringPoint(gomock.Any(), gomock.Any()).Return(nil,
			dErrors.WithDetails(errors.New("broken"), dErrors.CodeValidation, "cannot create metering point", []rules.Violation{
				{Code: masterdata.CodeMandatory, Field: "city", Message: "city is required"},
				{Code: masterdata.CodeMandatory, Field: "post_code", Message: "post code is required"},
			}))

		rec := s.serve(h, s.jsonRequest(http.MethodPost, "/metering-points", map[string]any{"gsrn_number": gsrn}))

		s.Equal(http.StatusUnprocessableEntity, rec.Code)
		var resp models.ErrorResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal(string(dErrors.CodeValidation), resp.Error)
		s.Len(resp.Violations, 2)
		s.Equal("city", resp.Violations[0].Field)
	})

	s.Run("unknown fields are rejected before the service", func() {
		h, _ := newTestHandler(s.T())
		rec := s.serve(h, s.jsonRequest(http.MethodPost, "/metering-points", map[string]any{"gsrn": gsrn}))
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("409 when the gsrn is taken", func() {
		h, svc := newTestHandler(s.T())
		svc.EXPECT().CreateMeteringPoint(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "gsrn number already in use"))
		rec := s.serve(h, s.jsonRequest(http.MethodPost, "/metering-points", map[string]any{"gsrn_number": gsrn}))
		s.Equal(http.StatusConflict, rec.Code)
	})
}

func (s *HandlerSuite) TestConnectionRoutesPassTheGsrn() {
	routes := map[string]func(*mocks.MockService) *gomock.Call{
		"connect": func(m *mocks.MockService) *gomock.Call {
			return m.EXPECT().ConnectMeteringPoint(gomock.Any(), gomock.Any())
		},
		"disconnect": func(m *mocks.MockService) *gomock.Call {
			return m.EXPECT().DisconnectMeteringPoint(gomock.Any(), gomock.Any())
		},
		"reconnect": func(m *mocks.MockService) *gomock.Call {
			return m.EXPECT().ReconnectMeteringPoint(gomock.Any(), gomock.Any())
		},
		"close-down": func(m *mocks.MockService) *gomock.Call {
			return m.EXPECT().CloseDown(gomock.Any(), gomock.Any())
		},
	}
	for action, expect := range routes {
		s.Run(action, func() {
			h, svc := newTestHandler(s.T())
			mp := consumption(s.T())
			expect(svc).DoAndReturn(func(_ context.Context, req *models.ConnectionRequest) (*service.Result, error) {
				s.Equal(gsrn, req.GsrnNumber)
				s.Equal(createdOn, req.EffectiveDate)
				return &service.Result{MeteringPoint: mp}, nil
			})

			rec := s.serve(h, s.jsonRequest(http.MethodPost, "/metering-points/"+gsrn+"/"+action,
				map[string]string{"effective_date": createdOn}))

			s.Equal(http.StatusOK, rec.Code)
			var resp models.CommandResponse
			s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
			s.Empty(resp.Events)
		})
	}
}

func (s *HandlerSuite) TestChanges() {
	s.Run("master data", func() {
		h, svc := newTestHandler(s.T())
		svc.EXPECT().ChangeMasterData(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *models.ChangeMasterDataRequest) (*service.Result, error) {
				s.Equal(gsrn, req.GsrnNumber)
				s.Equal("M2", *req.MasterData.MeterID)
				return &service.Result{MeteringPoint: consumption(s.T())}, nil
			})
		rec := s.serve(h, s.jsonRequest(http.MethodPut, "/metering-points/"+gsrn+"/master-data",
			map[string]any{"master_data": map[string]string{"meter_id": "M2"}}))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("address", func() {
		h, svc := newTestHandler(s.T())
		svc.EXPECT().ChangeAddress(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *models.ChangeAddressRequest) (*service.Result, error) {
				s.Equal("Odense C", *req.Address.City)
				return &service.Result{MeteringPoint: consumption(s.T())}, nil
			})
		rec := s.serve(h, s.jsonRequest(http.MethodPut, "/metering-points/"+gsrn+"/address",
			map[string]any{"address": map[string]string{"city": "Odense C"}, "effective_date": createdOn}))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("metering configuration", func() {
		h, svc := newTestHandler(s.T())
		svc.EXPECT().ChangeMeteringConfiguration(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *models.ChangeMeteringConfigurationRequest) (*service.Result, error) {
				s.Equal("Virtual", req.MeteringMethod)
				return &service.Result{MeteringPoint: consumption(s.T())}, nil
			})
		rec := s.serve(h, s.jsonRequest(http.MethodPut, "/metering-points/"+gsrn+"/metering-configuration",
			map[string]string{"metering_method": "Virtual", "effective_date": createdOn}))
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("energy supplier on a non accounting point is 400", func() {
		h, svc := newTestHandler(s.T())
		svc.EXPECT().SetEnergySupplier(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req *models.SetEnergySupplierRequest) (*service.Result, error) {
				s.True(req.StartOfSupply.Equal(time.Date(2024, 1, 1, 23, 0, 0, 0, time.UTC)))
				return nil, dErrors.New(dErrors.CodeBadRequest, "energy supplier requires an accounting point")
			})
		rec := s.serve(h, s.jsonRequest(http.MethodPut, "/metering-points/"+gsrn+"/energy-supplier",
			map[string]string{"start_of_supply": createdOn}))
		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestGet() {
	s.Run("200 renders the point", func() {
		h, svc := newTestHandler(s.T())
		svc.EXPECT().GetByGSRN(gomock.Any(), gsrn).Return(consumption(s.T()), nil)

		req := httptest.NewRequest(http.MethodGet, "/metering-points/"+gsrn, nil)
		testutil.WithBearer(req, "test-token")
		rec := s.serve(h, req)

		s.Equal(http.StatusOK, rec.Code)
		var resp models.MeteringPointResponse
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
		s.Equal("New", resp.PhysicalState)
		s.Equal("Aarhus C", *resp.MasterData.City)
	})

	s.Run("404 when unknown", func() {
		h, svc := newTestHandler(s.T())
		svc.EXPECT().GetByGSRN(gomock.Any(), gsrn).Return(nil, dErrors.New(dErrors.CodeNotFound, "metering point not found"))
		req := httptest.NewRequest(http.MethodGet, "/metering-points/"+gsrn, nil)
		testutil.WithBearer(req, "test-token")
		s.Equal(http.StatusNotFound, s.serve(h, req).Code)
	})

	s.Run("internal errors carry no description", func() {
		h, svc := newTestHandler(s.T())
		svc.EXPECT().GetByGSRN(gomock.Any(), gsrn).Return(nil, dErrors.New(dErrors.CodeInternal, "db password is hunter2"))
		req := httptest.NewRequest(http.MethodGet, "/metering-points/"+gsrn, nil)
		testutil.WithBearer(req, "test-token")
		rec := s.serve(h, req)
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.NotContains(rec.Body.String(), "hunter2")
	})
}

func (s *HandlerSuite) TestValidateMasterData() {
	h, svc := newTestHandler(s.T())
	svc.EXPECT().ValidateMasterData(gomock.Any(), gomock.Any()).Return(
		rules.Of(rules.Violation{Code: masterdata.CodeMandatory, Field: "meter_id", Message: "meter id is required"}), nil)

	rec := s.serve(h, s.jsonRequest(http.MethodPost, "/metering-points/validate",
		map[string]any{"type": "Consumption", "master_data": map[string]string{"metering_method": "Physical"}}))

	s.Equal(http.StatusOK, rec.Code)
	var resp models.ValidationResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.False(resp.Valid)
	s.Require().Len(resp.Violations, 1)
	s.Equal("mandatory", resp.Violations[0].Code)
}

func (s *HandlerSuite) TestAuth() {
	s.Run("missing token is 401", func() {
		h, _ := newTestHandler(s.T())
		req := httptest.NewRequest(http.MethodGet, "/metering-points/"+gsrn, nil)
		s.Equal(http.StatusUnauthorized, s.serve(h, req).Code)
	})

	s.Run("writer roles gate mutations but not reads", func() {
		h, svc := newTestHandler(s.T(), WithWriterRoles("DGL"))
		svc.EXPECT().GetByGSRN(gomock.Any(), gsrn).Return(consumption(s.T()), nil)

		read := httptest.NewRequest(http.MethodGet, "/metering-points/"+gsrn, nil)
		testutil.WithBearer(read, "test-token")
		s.Equal(http.StatusOK, s.serve(h, read).Code)

		write := s.jsonRequest(http.MethodPost, "/metering-points/"+gsrn+"/connect", map[string]string{"effective_date": createdOn})
		s.Equal(http.StatusForbidden, s.serve(h, write).Code)
	})

	s.Run("rate limit applies per actor", func() {
		h, svc := newTestHandler(s.T(), WithRateLimit(ratelimit.NewInMemoryWindow(), 1, time.Minute))
		svc.EXPECT().GetByGSRN(gomock.Any(), gsrn).Return(consumption(s.T()), nil).Times(1)

		for _, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
			req := httptest.NewRequest(http.MethodGet, "/metering-points/"+gsrn, nil)
			testutil.WithBearer(req, "test-token")
			s.Equal(want, s.serve(h, req).Code)
		}
	})
}

// internal/controller/customer_controller.go
package controller

import (
    "bytes"
    "encoding/json"
    "errors"
    "io"
    "net"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"

    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/auth"
    appErrors "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/errors"
    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/imagestore"
    "github.com/arvinjon17/core2-moverstaxi-backend-sub001/internal/service"
)

type CustomerController struct {
    Reconciler *service.Reconciler
    Repair     *service.RepairService
}

// UpdateCustomer handles the form-encoded (optionally multipart) write
// path. Output is the JSON envelope the panel's frontend expects.
func (c *CustomerController) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
    userID, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil || userID <= 0 {
        writeError(w, http.StatusBadRequest, appErrors.CodeInvalidInput, "invalid customer id")
        return
    }

    req, err := parseUpdateForm(r, userID)
    if err != nil {
        writeError(w, http.StatusBadRequest, appErrors.CodeInvalidInput, err.Error())
        return
    }

    result, err := c.Reconciler.UpdateCustomer(req)
    if err != nil {
        writeReconcileError(w, result, err)
        return
    }

    resp := map[string]interface{}{
        "success":         true,
        "message":         "customer updated",
        "user_id":         result.UserID,
        "profile_created": result.ProfileCreated,
    }
    if result.ImageRef != "" {
        resp["image_ref"] = result.ImageRef
    }
    if result.ImageError != "" {
        // advisory only; the textual update still succeeded
        resp["image_error"] = result.ImageError
    }
    writeJSON(w, http.StatusOK, resp)
}

// SetCustomerStatus handles the status transition. The body may be raw
// JSON; when it does not parse, form fields are used instead.
func (c *CustomerController) SetCustomerStatus(w http.ResponseWriter, r *http.Request) {
    userID, err := strconv.Atoi(chi.URLParam(r, "id"))
    if err != nil || userID <= 0 {
        writeError(w, http.StatusBadRequest, appErrors.CodeInvalidInput, "invalid customer id")
        return
    }

    status := parseStatusBody(r)

    actorID := 0
    if p := auth.FromContext(r.Context()); p != nil {
        actorID = p.UserID
    }

    result, err := c.Reconciler.SetCustomerStatus(userID, status, actorID, clientIP(r))
    if err != nil {
        if errors.Is(err, appErrors.ErrCustomerNotFound) {
            writeError(w, http.StatusNotFound, appErrors.CodeNotFound, err.Error())
            return
        }
        var storeErr *appErrors.ErrStoreFailure
        if errors.As(err, &storeErr) {
            resp := map[string]interface{}{
                "success":      false,
                "message":      storeErr.Error(),
                "code":         appErrors.CodeStoreFailure,
                "failed_store": storeErr.Store,
            }
            if result != nil {
                // account store already committed; report the partial state
                resp["account_status"] = result.AccountStatus
            }
            writeJSON(w, http.StatusInternalServerError, resp)
            return
        }
        writeError(w, http.StatusBadRequest, appErrors.CodeInvalidInput, err.Error())
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "success":         true,
        "message":         "customer status updated",
        "user_id":         result.UserID,
        "account_status":  result.AccountStatus,
        "presence_status": result.PresenceStatus,
    })
}

// RunRepair executes the orphan repair pass and returns its report.
func (c *CustomerController) RunRepair(w http.ResponseWriter, r *http.Request) {
    report, err := c.Repair.Run()
    if err != nil {
        writeError(w, http.StatusInternalServerError, appErrors.CodeStoreFailure, err.Error())
        return
    }

    writeJSON(w, http.StatusOK, map[string]interface{}{
        "success": true,
        "message": "repair completed",
        "report":  report,
    })
}

func parseUpdateForm(r *http.Request, userID int) (*service.UpdateRequest, error) {
    // multipart when an image rides along, plain form otherwise
    if err := r.ParseMultipartForm(imagestore.MaxUploadBytes + 1<<19); err != nil {
        if err := r.ParseForm(); err != nil {
            return nil, err
        }
    }

    req := &service.UpdateRequest{
        UserID:         userID,
        FirstName:      r.FormValue("firstname"),
        LastName:       r.FormValue("lastname"),
        Email:          r.FormValue("email"),
        Phone:          r.FormValue("phone"),
        AccountStatus:  r.FormValue("account_status"),
        PresenceStatus: r.FormValue("current_status"),
        Address:        r.FormValue("address"),
        City:           r.FormValue("city"),
        State:          r.FormValue("state"),
        Zip:            r.FormValue("zip"),
        Password:       r.FormValue("password"),
    }

    if v := r.FormValue("latitude"); v != "" {
        lat, err := strconv.ParseFloat(v, 64)
        if err != nil {
            return nil, errors.New("invalid latitude")
        }
        req.Latitude = &lat
    }
    if v := r.FormValue("longitude"); v != "" {
        lng, err := strconv.ParseFloat(v, 64)
        if err != nil {
            return nil, errors.New("invalid longitude")
        }
        req.Longitude = &lng
    }

    if file, header, err := r.FormFile("profile_image"); err == nil {
        defer file.Close()
        data, readErr := io.ReadAll(io.LimitReader(file, imagestore.MaxUploadBytes+1))
        if readErr == nil {
            req.ImageData = data
            req.ImageHint = header.Filename
        }
    }

    return req, nil
}

func parseStatusBody(r *http.Request) string {
    var body struct {
        Status string `json:"status"`
    }

    raw, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
    if err == nil && len(raw) > 0 {
        if json.Unmarshal(raw, &body) == nil && body.Status != "" {
            return body.Status
        }
    }

    // body did not parse as JSON; put it back and fall back to form fields
    r.Body = io.NopCloser(bytes.NewReader(raw))
    _ = r.ParseForm()
    return r.FormValue("status")
}

func writeReconcileError(w http.ResponseWriter, result *service.UpdateResult, err error) {
    var dupErr *appErrors.ErrDuplicateEmail
    if errors.As(err, &dupErr) {
        writeError(w, http.StatusConflict, appErrors.CodeDuplicateEmail, dupErr.Error())
        return
    }
    if errors.Is(err, appErrors.ErrCustomerNotFound) {
        writeError(w, http.StatusNotFound, appErrors.CodeNotFound, err.Error())
        return
    }

    var storeErr *appErrors.ErrStoreFailure
    if errors.As(err, &storeErr) {
        resp := map[string]interface{}{
            "success":      false,
            "message":      storeErr.Error(),
            "code":         appErrors.CodeStoreFailure,
            "failed_store": storeErr.Store,
        }
        if result != nil {
            // the other store's write is retained, not compensated
            resp["account_updated"] = result.AccountUpdated
            resp["profile_updated"] = result.ProfileUpdated
        }
        writeJSON(w, http.StatusInternalServerError, resp)
        return
    }

    writeError(w, http.StatusBadRequest, appErrors.CodeInvalidInput, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, payload map[string]interface{}) {
    w.Header().Set("Content-Type", "application/json")
    w.WriteHeader(status)
    _ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
    writeJSON(w, status, map[string]interface{}{
        "success": false,
        "message": msg,
        "code":    code,
    })
}

func clientIP(r *http.Request) string {
    if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
        return ip
    }
    host, _, err := net.SplitHostPort(r.RemoteAddr)
    if err != nil {
        return r.RemoteAddr
    }
    return host
}

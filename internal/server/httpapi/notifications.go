package httpapi

import (
	"net/http"
	"strconv"
)

func (a *API) listNotifications(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
	items, err := a.svc.Notifications.List(r.Context(), uid, unread)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	out := make([]notificationDTO, 0, len(items))
	for _, n := range items {
		out = append(out, toNotification(n))
	}
	writeOK(w, http.StatusOK, "notifications", out)
}

func (a *API) unreadCount(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	n, err := a.svc.Notifications.UnreadCount(r.Context(), uid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "unread count", map[string]int64{"count": n})
}

func (a *API) markAllRead(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	n, err := a.svc.Notifications.MarkAllRead(r.Context(), uid)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "notifications marked read", map[string]int64{"updated": n})
}

func (a *API) markRead(w http.ResponseWriter, r *http.Request) {
	uid, err := currentUser(r)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if err := a.svc.Notifications.MarkRead(r.Context(), id, uid); err != nil {
		a.fail(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "notification marked read", nil)
}

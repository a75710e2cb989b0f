// Package apitest runs an in-memory imitation of the skill-sharing API for
// package tests. Routes are registered on a gin engine behind httptest, and
// individual routes can be made to fail or to block until released.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/skillshare/cli/pkg/api"
)

// Route keys, as reported by gin's FullPath.
const (
	RouteLike      = "POST /api/posts/:id/like"
	RouteFavorite  = "POST /api/posts/:id/favorite"
	RouteFollow    = "POST /api/users/:id/follow"
	RouteUnfollow  = "POST /api/users/:id/unfollow"
	RouteGetUser   = "GET /api/users/:id"
	RouteListPosts = "GET /api/posts"
	RouteUser      = "GET /api/user"
)

// SessionCookie is the cookie name the server issues on login
const SessionCookie = "JSESSIONID"

type failure struct {
	status int
	body   string
	times  int
}

type account struct {
	user     api.User
	password string
}

// Server is a fake API. All exported methods are safe for concurrent use.
type Server struct {
	*httptest.Server

	// SnapshotOnToggle makes like/favorite answer with the updated post.
	SnapshotOnToggle bool

	mu       sync.Mutex
	nextID   int64
	posts    map[int64]*api.Post
	users    map[int64]*account
	follows  map[[2]int64]bool
	plans    map[int64]*api.LearningPlan
	progress map[int64]*api.ProgressUpdate
	sessions map[string]int64
	failures map[string]*failure
	gates    map[string]chan struct{}
	calls    map[string][]*http.Request
}

// New starts a server; it is closed when the test ends via Close.
func New() *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{
		SnapshotOnToggle: true,
		nextID:           1000,
		posts:            make(map[int64]*api.Post),
		users:            make(map[int64]*account),
		follows:          make(map[[2]int64]bool),
		plans:            make(map[int64]*api.LearningPlan),
		progress:         make(map[int64]*api.ProgressUpdate),
		sessions:         make(map[string]int64),
		failures:         make(map[string]*failure),
		gates:            make(map[string]chan struct{}),
		calls:            make(map[string][]*http.Request),
	}

	// Responses are compressed like the production server's, so clients
	// under test always decode through gzip.
	router := gin.New()
	router.Use(gzip.Gzip(gzip.DefaultCompression), s.intercept)
	s.routes(router.Group("/api"))

	s.Server = httptest.NewServer(router)
	return s
}

// BaseURL is the API root to configure clients with
func (s *Server) BaseURL() string {
	return s.URL + "/api"
}

// AddUser registers an account that can log in with password
func (s *Server) AddUser(u api.User, password string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &account{user: u, password: password}
}

// AddPost stores a post
func (s *Server) AddPost(p api.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := p
	s.posts[p.ID] = &cp
}

// Post returns the server-side copy of a post
func (s *Server) Post(id int64) (api.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return api.Post{}, false
	}
	return *p, true
}

// SetFollowing sets whether follower follows target
func (s *Server) SetFollowing(follower, target int64, following bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setFollowingLocked(follower, target, following)
}

func (s *Server) setFollowingLocked(follower, target int64, following bool) {
	key := [2]int64{follower, target}
	was := s.follows[key]
	if was == following {
		return
	}
	if following {
		s.follows[key] = true
	} else {
		delete(s.follows, key)
	}
	delta := 1
	if !following {
		delta = -1
	}
	if a, ok := s.users[target]; ok {
		a.user.FollowersCount += delta
	}
	if a, ok := s.users[follower]; ok {
		a.user.FollowingCount += delta
	}
}

// Following reports the server-side follow state
func (s *Server) Following(follower, target int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.follows[[2]int64{follower, target}]
}

// User returns the server-side profile
func (s *Server) User(id int64) (api.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[id]
	if !ok {
		return api.User{}, false
	}
	return a.user, true
}

// FailNext makes the next n requests to route answer with status and body
func (s *Server) FailNext(route string, status int, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = &failure{status: status, body: fmt.Sprintf(`{"message":"injected %d"}`, status), times: n}
}

// Block holds requests to route until the returned func is called
func (s *Server) Block(route string) (release func()) {
	ch := make(chan struct{})
	s.mu.Lock()
	s.gates[route] = ch
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.gates, route)
			s.mu.Unlock()
			close(ch)
		})
	}
}

// Calls returns how many requests reached route
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls[route])
}

// Requests returns the recorded requests for route
func (s *Server) Requests(route string) []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.calls[route]...)
}

// WaitForCalls polls until route has seen n requests or the timeout passes
func (s *Server) WaitForCalls(route string, n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if s.Calls(route) >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}

// SessionFor issues a session cookie value for userID without a login call
func (s *Server) SessionFor(userID int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	token := fmt.Sprintf("sess-%d-%d", userID, len(s.sessions))
	s.sessions[token] = userID
	return token
}

// ExpireSessions drops every session so later requests see 401
func (s *Server) ExpireSessions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]int64)
}

func (s *Server) intercept(c *gin.Context) {
	route := c.Request.Method + " " + c.FullPath()

	s.mu.Lock()
	s.calls[route] = append(s.calls[route], c.Request.Clone(c.Request.Context()))
	gate := s.gates[route]
	f := s.failures[route]
	if f != nil {
		f.times--
		if f.times <= 0 {
			delete(s.failures, route)
		}
	}
	s.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-c.Request.Context().Done():
			c.Abort()
			return
		}
	}

	if f != nil {
		c.Data(f.status, "application/json", []byte(f.body))
		c.Abort()
		return
	}
	c.Next()
}

func (s *Server) routes(g *gin.RouterGroup) {
	g.POST("/auth/login", s.login)
	g.POST("/auth/register", s.register)
	g.POST("/auth/logout", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Successfully logged out"})
	})
	g.GET("/user", s.currentUser)

	g.GET("/posts", s.listPosts)
	g.POST("/posts", s.createPost)
	g.GET("/posts/user/:userId", s.listUserPosts)
	g.PUT("/posts/:id", s.updatePost)
	g.DELETE("/posts/:id", s.deletePost)
	g.POST("/posts/:id/like", s.toggleLike)
	g.POST("/posts/:id/favorite", s.toggleFavorite)
	g.POST("/posts/:id/comments", s.addComment)

	g.GET("/comments/post/:postId", s.listComments)
	g.PUT("/comments/:id", s.updateComment)
	g.DELETE("/comments/:id", s.deleteComment)

	g.GET("/plans", s.listPlans)
	g.POST("/plans", s.createPlan)
	g.PUT("/plans/:id", s.updatePlan)
	g.DELETE("/plans/:id", s.deletePlan)

	g.GET("/progress", s.listProgress)
	g.POST("/progress", s.createProgress)
	g.PUT("/progress/:id", s.updateProgress)
	g.DELETE("/progress/:id", s.deleteProgress)

	g.GET("/users/search", s.searchUsers)
	g.GET("/users/:id", s.getUser)
	g.GET("/users/:id/following/:targetId", s.isFollowing)
	g.POST("/users/:id/follow", s.follow)
	g.POST("/users/:id/unfollow", s.unfollow)
}

func param(c *gin.Context, name string) int64 {
	v, _ := strconv.ParseInt(c.Param(name), 10, 64)
	return v
}

func query(c *gin.Context, name string) int64 {
	v, _ := strconv.ParseInt(c.Query(name), 10, 64)
	return v
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Server) login(c *gin.Context) {
	var creds api.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.users {
		if strings.EqualFold(a.user.Email, creds.Email) && a.password == creds.Password {
			token := fmt.Sprintf("sess-%d-%d", a.user.ID, len(s.sessions))
			s.sessions[token] = a.user.ID
			c.SetCookie(SessionCookie, token, 3600, "/", "", false, true)
			c.JSON(http.StatusOK, a.user)
			return
		}
	}
	c.String(http.StatusUnauthorized, "Invalid email or password")
}

func (s *Server) register(c *gin.Context) {
	var creds api.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil || creds.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email is required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.users {
		if strings.EqualFold(a.user.Email, creds.Email) {
			c.JSON(http.StatusConflict, gin.H{"message": "Email already registered"})
			return
		}
	}
	u := api.User{ID: s.id(), Email: creds.Email, Name: creds.Name}
	s.users[u.ID] = &account{user: u, password: creds.Password}
	c.JSON(http.StatusCreated, u)
}

func (s *Server) currentUser(c *gin.Context) {
	token, err := c.Cookie(SessionCookie)
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.sessions[token]
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "Not authenticated"})
		return
	}
	a := s.users[userID]
	c.JSON(http.StatusOK, gin.H{"id": userID, "name": a.user.Name, "email": a.user.Email})
}

func (s *Server) sortedPosts(filter func(*api.Post) bool) []api.Post {
	out := make([]api.Post, 0, len(s.posts))
	for _, p := range s.posts {
		if filter == nil || filter(p) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *Server) listPosts(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.sortedPosts(nil))
}

func (s *Server) listUserPosts(c *gin.Context) {
	userID := param(c, "userId")
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, s.sortedPosts(func(p *api.Post) bool {
		return p.User != nil && p.User.ID == userID
	}))
}

func (s *Server) createPost(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "multipart form required"})
		return
	}
	title := c.PostForm("title")
	description := c.PostForm("description")
	userID, _ := strconv.ParseInt(c.PostForm("userId"), 10, 64)
	if title == "" || description == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "title and description are required"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p := &api.Post{ID: s.id(), Title: title, Description: description, LikedBy: api.IDList{}, FavoritedBy: api.IDList{}}
	if a, ok := s.users[userID]; ok {
		p.User = &api.Author{ID: userID, Name: a.user.Name}
	} else {
		p.User = &api.Author{ID: userID}
	}
	images := form.File["images"]
	for i, fh := range images {
		name := "img:" + fh.Filename
		switch i {
		case 0:
			p.Image1 = name
		case 1:
			p.Image2 = name
		case 2:
			p.Image3 = name
		}
	}
	if v := form.File["video"]; len(v) > 0 {
		p.Video = "vid:" + v[0].Filename
	}
	s.posts[p.ID] = p
	c.JSON(http.StatusCreated, p)
}

func (s *Server) updatePost(c *gin.Context) {
	var body struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[param(c, "id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	p.Title, p.Description = body.Title, body.Description
	c.JSON(http.StatusOK, p)
}

func (s *Server) deletePost(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	postID := param(c, "id")
	p, ok := s.posts[postID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	if p.User != nil && p.User.ID != query(c, "userId") {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not the owner"})
		return
	}
	delete(s.posts, postID)
	c.Status(http.StatusNoContent)
}

func toggleID(list api.IDList, userID int64) (api.IDList, bool) {
	out := make(api.IDList, 0, len(list)+1)
	found := false
	for _, v := range list {
		if v == userID {
			found = true
			continue
		}
		out = append(out, v)
	}
	if !found {
		out = append(out, userID)
	}
	return out, !found
}

func (s *Server) toggleLike(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[param(c, "id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	p.LikedBy, _ = toggleID(p.LikedBy, query(c, "userId"))
	p.LikeCount = len(p.LikedBy)
	s.toggleReply(c, p)
}

func (s *Server) toggleFavorite(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[param(c, "id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	p.FavoritedBy, _ = toggleID(p.FavoritedBy, query(c, "userId"))
	p.FavoriteCount = len(p.FavoritedBy)
	s.toggleReply(c, p)
}

func (s *Server) toggleReply(c *gin.Context, p *api.Post) {
	if s.SnapshotOnToggle {
		c.JSON(http.StatusOK, p)
		return
	}
	c.Status(http.StatusOK)
}

func (s *Server) addComment(c *gin.Context) {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || strings.TrimSpace(body.Content) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "content is required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[param(c, "id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	userID := query(c, "userId")
	comment := api.Comment{ID: s.id(), Content: body.Content, UserID: userID, PostID: p.ID}
	comment.CreatedAt.Time = time.Now()
	if a, ok := s.users[userID]; ok {
		comment.UserName = a.user.Name
	}
	p.Comments = append(p.Comments, comment)
	c.JSON(http.StatusCreated, comment)
}

func (s *Server) findComment(commentID int64) (*api.Post, int) {
	for _, p := range s.posts {
		for i := range p.Comments {
			if p.Comments[i].ID == commentID {
				return p, i
			}
		}
	}
	return nil, -1
}

func (s *Server) listComments(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[param(c, "postId")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, p.Comments)
}

func (s *Server) updateComment(c *gin.Context) {
	var body struct {
		Content string `json:"content"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, i := s.findComment(param(c, "id"))
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		return
	}
	p.Comments[i].Content = body.Content
	c.JSON(http.StatusOK, p.Comments[i])
}

func (s *Server) deleteComment(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, i := s.findComment(param(c, "id"))
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Comment not found"})
		return
	}
	p.Comments = append(p.Comments[:i], p.Comments[i+1:]...)
	c.Status(http.StatusNoContent)
}

func (s *Server) listPlans(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.LearningPlan, 0, len(s.plans))
	for _, p := range s.plans {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	c.JSON(http.StatusOK, out)
}

func (s *Server) createPlan(c *gin.Context) {
	var plan api.LearningPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	plan.ID = s.id()
	plan.UserID = query(c, "userId")
	s.plans[plan.ID] = &plan
	c.JSON(http.StatusCreated, plan)
}

func (s *Server) updatePlan(c *gin.Context) {
	var plan api.LearningPlan
	if err := c.ShouldBindJSON(&plan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.plans[param(c, "id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Plan not found"})
		return
	}
	plan.ID, plan.UserID = existing.ID, existing.UserID
	*existing = plan
	c.JSON(http.StatusOK, plan)
}

func (s *Server) deletePlan(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	planID := param(c, "id")
	p, ok := s.plans[planID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Plan not found"})
		return
	}
	if p.UserID != query(c, "userId") {
		c.JSON(http.StatusForbidden, gin.H{"message": "Not the owner"})
		return
	}
	delete(s.plans, planID)
	c.Status(http.StatusNoContent)
}

func (s *Server) listProgress(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]api.ProgressUpdate, 0, len(s.progress))
	for _, p := range s.progress {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	c.JSON(http.StatusOK, out)
}

func (s *Server) createProgress(c *gin.Context) {
	var body struct {
		Content      string `json:"content"`
		TemplateType string `json:"templateType"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := &api.ProgressUpdate{ID: s.id(), Content: body.Content, TemplateType: body.TemplateType, UserID: query(c, "userId")}
	p.CreatedAt.Time = time.Now()
	s.progress[p.ID] = p
	c.JSON(http.StatusCreated, p)
}

func (s *Server) updateProgress(c *gin.Context) {
	var body struct {
		Content      string `json:"content"`
		TemplateType string `json:"templateType"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.progress[param(c, "id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Progress update not found"})
		return
	}
	p.Content, p.TemplateType = body.Content, body.TemplateType
	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProgress(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	progressID := param(c, "id")
	if _, ok := s.progress[progressID]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "Progress update not found"})
		return
	}
	delete(s.progress, progressID)
	c.Status(http.StatusNoContent)
}

func (s *Server) searchUsers(c *gin.Context) {
	q := strings.ToLower(c.Query("query"))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []api.User{}
	for _, a := range s.users {
		if strings.Contains(strings.ToLower(a.user.Name), q) || strings.Contains(strings.ToLower(a.user.Email), q) {
			out = append(out, a.user)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	c.JSON(http.StatusOK, out)
}

func (s *Server) getUser(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.users[param(c, "id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	c.JSON(http.StatusOK, a.user)
}

func (s *Server) isFollowing(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.JSON(http.StatusOK, gin.H{"isFollowing": s.follows[[2]int64{param(c, "id"), param(c, "targetId")}]})
}

func (s *Server) follow(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := param(c, "id")
	if _, ok := s.users[target]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	s.setFollowingLocked(query(c, "followerId"), target, true)
	c.JSON(http.StatusOK, gin.H{"followersCount": s.users[target].user.FollowersCount, "message": "Successfully followed user"})
}

func (s *Server) unfollow(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	target := param(c, "id")
	if _, ok := s.users[target]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
		return
	}
	s.setFollowingLocked(query(c, "followerId"), target, false)
	c.JSON(http.StatusOK, gin.H{"followersCount": s.users[target].user.FollowersCount, "message": "Successfully unfollowed user"})
}

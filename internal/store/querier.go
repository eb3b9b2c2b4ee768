package store

import (
	"context"

	"github.com/google/uuid"
)

type Querier interface {
	CreateBlogPost(ctx context.Context, arg CreateBlogPostParams) (BlogPost, error)
	CreateContactMessage(ctx context.Context, arg CreateContactMessageParams) (ContactMessage, error)
	CreateExperience(ctx context.Context, arg CreateExperienceParams) (Experience, error)
	CreateMediaItem(ctx context.Context, arg CreateMediaItemParams) (MediaItem, error)
	CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error)
	CreateService(ctx context.Context, arg CreateServiceParams) (Service, error)
	CreateSubscriber(ctx context.Context, email string) (Subscriber, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (User, error)
	DeleteBlogPost(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteContactMessage(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteExperience(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteMediaItem(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteProject(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteService(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteSubscriber(ctx context.Context, id uuid.UUID) (int64, error)
	GetBlogPost(ctx context.Context, id uuid.UUID) (BlogPost, error)
	GetBlogPostBySlug(ctx context.Context, slug string) (BlogPost, error)
	GetContactMessage(ctx context.Context, id uuid.UUID) (ContactMessage, error)
	GetExperience(ctx context.Context, id uuid.UUID) (Experience, error)
	GetMediaItem(ctx context.Context, id uuid.UUID) (MediaItem, error)
	GetProject(ctx context.Context, id uuid.UUID) (Project, error)
	GetProjectBySlug(ctx context.Context, slug string) (Project, error)
	GetService(ctx context.Context, id uuid.UUID) (Service, error)
	GetSettings(ctx context.Context) (Setting, error)
	GetSubscriber(ctx context.Context, id uuid.UUID) (Subscriber, error)
	GetSubscriberByEmail(ctx context.Context, email string) (Subscriber, error)
	GetUser(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	ListActiveSubscribers(ctx context.Context) ([]Subscriber, error)
	ListBlogPosts(ctx context.Context, publishedOnly bool) ([]BlogPost, error)
	ListContactMessages(ctx context.Context, unreadOnly bool) ([]ContactMessage, error)
	ListExperiences(ctx context.Context) ([]Experience, error)
	ListMediaItems(ctx context.Context, kind string) ([]MediaItem, error)
	ListProjects(ctx context.Context, featuredOnly bool) ([]Project, error)
	ListServices(ctx context.Context) ([]Service, error)
	ListSubscribers(ctx context.Context) ([]Subscriber, error)
	ResubscribeSubscriber(ctx context.Context, id uuid.UUID) (Subscriber, error)
	SetContactMessageRead(ctx context.Context, arg SetContactMessageReadParams) (ContactMessage, error)
	SetSubscriberActive(ctx context.Context, arg SetSubscriberActiveParams) (Subscriber, error)
	UpdateBlogPost(ctx context.Context, arg UpdateBlogPostParams) (BlogPost, error)
	UpdateExperience(ctx context.Context, arg UpdateExperienceParams) (Experience, error)
	UpdateMediaItem(ctx context.Context, arg UpdateMediaItemParams) (MediaItem, error)
	UpdateProject(ctx context.Context, arg UpdateProjectParams) (Project, error)
	UpdateService(ctx context.Context, arg UpdateServiceParams) (Service, error)
	UpdateSubscriberEmail(ctx context.Context, arg UpdateSubscriberEmailParams) (Subscriber, error)
	UpsertSettings(ctx context.Context, arg UpsertSettingsParams) (Setting, error)
}

var _ Querier = (*Queries)(nil)

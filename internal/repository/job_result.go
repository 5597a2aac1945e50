package repository

import (
	"context"
	"errors"

	"atlas/internal/model"

	"github.com/spf13/viper"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// JobResultRepository 任务执行结果存储
// 配置了 data.mongo.uri 时写入 mongo，否则写入主库
type JobResultRepository interface {
	Save(ctx context.Context, result *model.JobResult) error
	GetByJobID(ctx context.Context, jobID string) (*model.JobResult, error)
}

func NewJobResultRepository(r *Repository, conf *viper.Viper) (JobResultRepository, func(), error) {
	if conf.GetString("data.mongo.uri") == "" {
		return &jobResultRepository{Repository: r}, func() {}, nil
	}
	client, cleanup, err := NewMongo(conf)
	if err != nil {
		return nil, nil, err
	}
	return NewMongoJobResultRepository(client, conf.GetString("data.mongo.database")), cleanup, nil
}

type jobResultRepository struct {
	*Repository
}

// Save 按 job_id upsert
func (r *jobResultRepository) Save(ctx context.Context, result *model.JobResult) error {
	return r.DB(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "job_id"}},
		UpdateAll: true,
	}).Create(result).Error
}

func (r *jobResultRepository) GetByJobID(ctx context.Context, jobID string) (*model.JobResult, error) {
	var result model.JobResult
	if err := r.DB(ctx).Where("job_id = ?", jobID).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

const jobResultCollection = "job_results"

type mongoJobResultRepository struct {
	coll *mongo.Collection
}

func NewMongoJobResultRepository(client *mongo.Client, database string) JobResultRepository {
	if database == "" {
		database = "atlas"
	}
	return &mongoJobResultRepository{coll: client.Database(database).Collection(jobResultCollection)}
}

func (r *mongoJobResultRepository) Save(ctx context.Context, result *model.JobResult) error {
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": result.JobID}, result, options.Replace().SetUpsert(true))
	return err
}

func (r *mongoJobResultRepository) GetByJobID(ctx context.Context, jobID string) (*model.JobResult, error) {
	var result model.JobResult
	if err := r.coll.FindOne(ctx, bson.M{"_id": jobID}).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}
